package http

import (
	"context"
	"io"

	"hoursreport/internal/dataprocessing"
	"hoursreport/internal/services"
)

// ReportServiceInterface defines the report operations used by ReportHandler
type ReportServiceInterface interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (services.Summary, error)
	Summary(ctx context.Context) (services.Summary, error)
	Table(ctx context.Context, search string) (dataprocessing.TableView, error)
	Dashboard(ctx context.Context) (dataprocessing.Chart, error)
	Export(ctx context.Context, format string) (*services.ExportFile, error)
	SetThreshold(ctx context.Context, threshold float64) services.ViewState
	ApplyHighlight(ctx context.Context) (services.ViewState, error)
	SetView(ctx context.Context, view string) services.ViewState
	Clear(ctx context.Context) bool
}

// Ensure ReportService implements the interface
var _ ReportServiceInterface = (*services.ReportService)(nil)
