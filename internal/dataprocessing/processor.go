package dataprocessing

import (
	"log/slog"

	"hoursreport/pkg/contracts/domain"
)

// sampleSize is how many records are logged after a build.
const sampleSize = 5

// Processor builds pivot results and logs what it saw.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a processor. A nil logger falls back to slog.Default.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger}
}

// Build aggregates records into a Result and logs ingestion diagnostics.
func (p *Processor) Build(records []domain.Record) Result {
	res := Build(records)

	n := len(records)
	if n > sampleSize {
		n = sampleSize
	}
	p.logger.Debug("record sample", slog.Any("records", records[:n]))
	p.logger.Info("pivot built",
		slog.Int("records", res.Records),
		slog.Int("jobs", res.Pivot.Len()),
		slog.Int("dates", len(res.Dates)),
		slog.Any("date_axis", res.Dates),
		slog.Float64("total_hours", res.Total))
	return res
}

// Build aggregates records into a Result.
func Build(records []domain.Record) Result {
	pivot := Aggregate(records)
	return Result{
		Pivot:   pivot,
		Dates:   DistinctDates(records),
		Records: len(records),
		Total:   pivot.Total(),
	}
}

// Table lays the result out for display with the given options.
func (r Result) Table(opts TableOptions) TableView {
	view := TableView{
		Dates:      r.Dates,
		Threshold:  opts.Threshold,
		CountLabel: CountLabel(opts.Threshold),
		Highlight:  opts.Highlight,
		Search:     opts.Search,
		Groups:     []GroupView{},
	}
	if view.Dates == nil {
		view.Dates = []string{}
	}

	for _, job := range FilterJobs(r.Pivot, opts.Search) {
		g, _ := r.Pivot.Group(job)
		group := GroupView{Job: job}
		for _, emp := range g.Employees() {
			row := EmployeeRow{Employee: emp, Cells: make([]HourCell, 0, len(r.Dates))}
			for _, d := range r.Dates {
				hours, _ := g.Hours(emp, d)
				row.Cells = append(row.Cells, HourCell{
					Date:        d,
					Hours:       hours,
					Display:     FormatHours(hours),
					Highlighted: Highlighted(hours, opts.Threshold, opts.Highlight),
				})
			}
			group.Employees = append(group.Employees, row)
		}
		group.Counts = make([]CountCell, 0, len(r.Dates))
		for _, d := range r.Dates {
			c := CountAtOrAbove(r.Pivot, job, d, opts.Threshold)
			group.Counts = append(group.Counts, CountCell{Date: d, Count: c, Positive: c > 0})
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}
