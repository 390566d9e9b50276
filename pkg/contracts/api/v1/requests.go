// Package api contains the request contracts of the hours report HTTP API.
// Version v1 represents the current stable API version.
package api

// View names accepted by ViewRequest
const (
	ViewTable     = "table"
	ViewDashboard = "dashboard"
)

// ThresholdRequest sets the highlight threshold. Out-of-range values are
// clamped rather than rejected.
type ThresholdRequest struct {
	Threshold *float64 `json:"threshold" validate:"required"`
}

// ViewRequest switches between the table and dashboard views
type ViewRequest struct {
	View string `json:"view" validate:"required,oneof=table dashboard"`
}

// TableQuery filters the pivot table by job description
type TableQuery struct {
	Search string `json:"search" query:"search" validate:"max=200"`
}
