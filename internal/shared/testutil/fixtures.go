package testutil

import (
	"strings"
)

// HoursHeader is the header of a time-tracking export.
const HoursHeader = "JobDescription,EmpName,CheckDate,ESSickHours,EWALIWALIHours"

// HoursRow is one line of a time-tracking export fixture.
type HoursRow struct {
	Job, Employee, Date, Sick, Wali string
}

// HoursCSV renders rows under HoursHeader.
func HoursCSV(rows ...HoursRow) string {
	var b strings.Builder
	b.WriteString(HoursHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join([]string{r.Job, r.Employee, r.Date, r.Sick, r.Wali}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// SampleHoursCSV has two jobs over two dates; Alice reaches 45 hours on 2024-01-01.
func SampleHoursCSV() string {
	return HoursCSV(
		HoursRow{"Nurse", "Alice", "2024-01-01", "40", "0"},
		HoursRow{"Nurse", "Alice", "2024-01-01", "5", ""},
		HoursRow{"Nurse", "Bob", "2024-01-02", "8", "x"},
		HoursRow{"Clerk", "", "2024-01-02", "3", ""},
	)
}
