package dataprocessing

import (
	"hoursreport/pkg/contracts/domain"
)

// Result is everything derived from one set of records. It is rebuilt wholesale
// whenever the records change.
type Result struct {
	Pivot   domain.PivotTable
	Dates   []string
	Records int
	Total   float64
}

// TableOptions are the user parameters that shape a table view.
type TableOptions struct {
	Threshold float64
	Highlight bool
	Search    string
}

// TableView is the pivot laid out for display.
type TableView struct {
	Dates      []string    `json:"dates"`
	Threshold  float64     `json:"threshold"`
	CountLabel string      `json:"count_label"`
	Highlight  bool        `json:"highlight"`
	Search     string      `json:"search,omitempty"`
	Groups     []GroupView `json:"groups"`
}

// GroupView is one job with its employee rows and count row.
type GroupView struct {
	Job       string        `json:"job"`
	Employees []EmployeeRow `json:"employees"`
	Counts    []CountCell   `json:"counts"`
}

// EmployeeRow is one employee's hours across the date axis.
type EmployeeRow struct {
	Employee string     `json:"employee"`
	Cells    []HourCell `json:"cells"`
}

// HourCell is a single pivot cell as displayed.
type HourCell struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Display     string  `json:"display"`
	Highlighted bool    `json:"highlighted"`
}

// CountCell is the number of employees at or above the threshold on a date.
type CountCell struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	Positive bool   `json:"positive"`
}
