package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ReportMetrics holds the report and HTTP instruments.
// A nil *ReportMetrics is valid and records nothing.
type ReportMetrics struct {
	UploadsTotal        metric.Int64Counter
	RecordsIngested     metric.Int64Counter
	CoercionWarnings    metric.Int64Counter
	ExportsTotal        metric.Int64Counter
	BuildDuration       metric.Float64Histogram
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
	WebSocketClients    metric.Int64UpDownCounter
	WebSocketMessages   metric.Int64Counter
}

// NewReportMetrics creates the application instruments on meter.
// A nil meter yields no-op instruments.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(InstrumentationName)
	}

	m := &ReportMetrics{}
	var err error

	if m.UploadsTotal, err = meter.Int64Counter(
		"report_uploads_total",
		metric.WithDescription("Total number of hours file uploads"),
	); err != nil {
		return nil, err
	}

	if m.RecordsIngested, err = meter.Int64Counter(
		"report_records_ingested_total",
		metric.WithDescription("Total number of records read from uploads"),
	); err != nil {
		return nil, err
	}

	if m.CoercionWarnings, err = meter.Int64Counter(
		"report_coercion_warnings_total",
		metric.WithDescription("Total number of hour values that were not numeric"),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"report_exports_total",
		metric.WithDescription("Total number of report exports"),
	); err != nil {
		return nil, err
	}

	if m.BuildDuration, err = meter.Float64Histogram(
		"report_build_duration_seconds",
		metric.WithDescription("Time to parse and pivot an upload"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_active_clients",
		metric.WithDescription("Number of connected WebSocket clients"),
	); err != nil {
		return nil, err
	}

	if m.WebSocketMessages, err = meter.Int64Counter(
		"websocket_messages_sent_total",
		metric.WithDescription("Total number of WebSocket messages delivered to clients"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordUpload records one ingestion attempt
func (m *ReportMetrics) RecordUpload(ctx context.Context, format string, records, warnings int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("status", status),
	)

	m.UploadsTotal.Add(ctx, 1, attrs)
	m.BuildDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		return
	}
	m.RecordsIngested.Add(ctx, int64(records))
	m.CoercionWarnings.Add(ctx, int64(warnings))
}

// RecordExport records one export by format
func (m *ReportMetrics) RecordExport(ctx context.Context, format string, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("status", status),
	))
}

// RequestStarted increments the in-flight gauge
func (m *ReportMetrics) RequestStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, 1)
}

// RequestFinished records a completed HTTP request
func (m *ReportMetrics) RequestFinished(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.HTTPActiveRequests.Add(ctx, -1)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// ClientConnected adjusts the WebSocket client gauge by delta
func (m *ReportMetrics) ClientConnected(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketClients.Add(ctx, delta)
}

// MessagesDelivered counts messages handed to client send buffers
func (m *ReportMetrics) MessagesDelivered(ctx context.Context, messageType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.WebSocketMessages.Add(ctx, int64(n), metric.WithAttributes(attribute.String("type", messageType)))
}
