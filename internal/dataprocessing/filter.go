package dataprocessing

import (
	"strings"

	"hoursreport/pkg/contracts/domain"
)

// FilterJobs returns the job keys whose text contains query, ignoring case, in
// pivot order. An empty query matches every job.
func FilterJobs(pivot domain.PivotTable, query string) []string {
	jobs := pivot.Jobs()
	if query == "" {
		return jobs
	}
	needle := strings.ToLower(query)
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job), needle) {
			out = append(out, job)
		}
	}
	return out
}
