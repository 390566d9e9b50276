package domain

// PivotTable is the job -> employee -> check date -> hours structure.
//
// Jobs keep the order in which they were first seen, and employees keep their
// first-seen order within a job. Each (job, employee, date) path holds a single
// summed value. A PivotTable is immutable once built; use PivotBuilder to make one.
type PivotTable struct {
	jobs  []JobGroup
	index map[string]int
}

// JobGroup is one job description with its employees.
type JobGroup struct {
	Job       string
	employees []string
	hours     map[string]map[string]float64
}

// Employees returns the employee keys of the group in first-seen order.
func (g JobGroup) Employees() []string {
	out := make([]string, len(g.employees))
	copy(out, g.employees)
	return out
}

// Hours returns the summed hours for an employee on a date.
func (g JobGroup) Hours(employee, date string) (float64, bool) {
	byDate, ok := g.hours[employee]
	if !ok {
		return 0, false
	}
	v, ok := byDate[date]
	return v, ok
}

// Jobs returns the job keys in first-seen order.
func (p PivotTable) Jobs() []string {
	out := make([]string, len(p.jobs))
	for i, g := range p.jobs {
		out[i] = g.Job
	}
	return out
}

// Group returns the group for a job key.
func (p PivotTable) Group(job string) (JobGroup, bool) {
	i, ok := p.index[job]
	if !ok {
		return JobGroup{}, false
	}
	return p.jobs[i], true
}

// Employees returns the employees under a job, or nil if the job is absent.
func (p PivotTable) Employees(job string) []string {
	g, ok := p.Group(job)
	if !ok {
		return nil
	}
	return g.Employees()
}

// Hours returns the value at pivot[job][employee][date].
func (p PivotTable) Hours(job, employee, date string) (float64, bool) {
	g, ok := p.Group(job)
	if !ok {
		return 0, false
	}
	return g.Hours(employee, date)
}

// Len is the number of job groups.
func (p PivotTable) Len() int {
	return len(p.jobs)
}

// Total sums every cell in the pivot.
func (p PivotTable) Total() float64 {
	var total float64
	for _, g := range p.jobs {
		for _, byDate := range g.hours {
			for _, v := range byDate {
				total += v
			}
		}
	}
	return total
}

// AsMap returns a nested copy of the pivot, mostly useful in tests and JSON dumps.
func (p PivotTable) AsMap() map[string]map[string]map[string]float64 {
	out := make(map[string]map[string]map[string]float64, len(p.jobs))
	for _, g := range p.jobs {
		emps := make(map[string]map[string]float64, len(g.hours))
		for emp, byDate := range g.hours {
			dates := make(map[string]float64, len(byDate))
			for d, v := range byDate {
				dates[d] = v
			}
			emps[emp] = dates
		}
		out[g.Job] = emps
	}
	return out
}

// PivotBuilder accumulates hours into a PivotTable.
type PivotBuilder struct {
	table PivotTable
}

// NewPivotBuilder returns an empty builder.
func NewPivotBuilder() *PivotBuilder {
	return &PivotBuilder{table: PivotTable{index: make(map[string]int)}}
}

// Add accumulates hours at (job, employee, date), creating the path at 0 first.
func (b *PivotBuilder) Add(job, employee, date string, hours float64) {
	i, ok := b.table.index[job]
	if !ok {
		i = len(b.table.jobs)
		b.table.index[job] = i
		b.table.jobs = append(b.table.jobs, JobGroup{
			Job:   job,
			hours: make(map[string]map[string]float64),
		})
	}
	g := &b.table.jobs[i]
	byDate, ok := g.hours[employee]
	if !ok {
		byDate = make(map[string]float64)
		g.hours[employee] = byDate
		g.employees = append(g.employees, employee)
	}
	byDate[date] += hours
}

// Build returns the finished table. The builder must not be used afterwards.
func (b *PivotBuilder) Build() PivotTable {
	t := b.table
	b.table = PivotTable{index: make(map[string]int)}
	return t
}
