package dataprocessing

import (
	"hoursreport/pkg/contracts/domain"
)

// Aggregate groups records by (job, employee, check date) and sums
// ESSickHours + EWALIWALIHours for each path. Missing text fields fall into the
// "Unknown" bucket and unreadable hours count as 0, so no record is ever dropped.
func Aggregate(records []domain.Record) domain.PivotTable {
	b := domain.NewPivotBuilder()
	for _, rec := range records {
		b.Add(rec.Job(), rec.Employee(), rec.Date(), rec.TotalHours())
	}
	return b.Build()
}

// CountAtOrAbove counts employees under job whose hours on date are >= threshold.
// An employee without an entry for the date has 0 hours.
func CountAtOrAbove(pivot domain.PivotTable, job, date string, threshold float64) int {
	g, ok := pivot.Group(job)
	if !ok {
		return 0
	}
	count := 0
	for _, emp := range g.Employees() {
		hours, _ := g.Hours(emp, date)
		if hours >= threshold {
			count++
		}
	}
	return count
}
