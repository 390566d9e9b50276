package dataprocessing

import (
	"hoursreport/pkg/contracts/domain"
)

// Fixed leading columns of the exported sheet.
const (
	ColumnJob      = "JobDescription"
	ColumnEmployee = "Employee"
)

// ExportColumns is the header of the exported sheet.
func ExportColumns(dates []string) []string {
	cols := make([]string, 0, len(dates)+2)
	cols = append(cols, ColumnJob, ColumnEmployee)
	return append(cols, dates...)
}

// Flatten lays the pivot out as export rows. For each job, in pivot order, it
// emits one row per employee with their hours on every date (0 when absent),
// then a count row labelled with the threshold, then a blank separator row.
func Flatten(pivot domain.PivotTable, dates []string, threshold float64) []domain.Row {
	var rows []domain.Row
	label := CountLabel(threshold)

	for _, job := range pivot.Jobs() {
		g, _ := pivot.Group(job)
		for _, emp := range g.Employees() {
			cells := make([]domain.Cell, 0, len(dates)+2)
			cells = append(cells,
				domain.Cell{Column: ColumnJob, Value: job},
				domain.Cell{Column: ColumnEmployee, Value: emp},
			)
			for _, d := range dates {
				hours, _ := g.Hours(emp, d)
				cells = append(cells, domain.Cell{Column: d, Value: hours})
			}
			rows = append(rows, domain.Row{Cells: cells})
		}

		count := make([]domain.Cell, 0, len(dates)+2)
		count = append(count,
			domain.Cell{Column: ColumnJob, Value: label},
			domain.Cell{Column: ColumnEmployee, Value: ""},
		)
		for _, d := range dates {
			count = append(count, domain.Cell{Column: d, Value: CountAtOrAbove(pivot, job, d, threshold)})
		}
		rows = append(rows, domain.Row{Cells: count}, domain.Row{})
	}
	return rows
}
