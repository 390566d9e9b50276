// Package services implements the business logic between the HTTP handlers
// and the pivot engine.
//
// ReportService owns the single in-memory session. Every upload builds a new
// immutable Session (records, pivot, date axis, chart) and swaps it in under a
// lock, so concurrent readers always see a consistent snapshot. The view state
// (threshold, highlight flag, table or dashboard) lives beside the session and
// is changed only through the service, which publishes a WebSocket event after
// each change.
//
// Data operations return ErrNoSession until a file has been uploaded.
// Handlers map that and the parser's sentinel errors to problem responses.
package services
