package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"hoursreport/internal/config"
	"hoursreport/internal/dataprocessing"
	apierrors "hoursreport/internal/errors"
	"hoursreport/internal/exporter"
	"hoursreport/internal/infrastructure"
	v1 "hoursreport/pkg/contracts/api/v1"
	"hoursreport/pkg/contracts/events"
)

// maxLoggedWarnings caps the per-cell coercion warnings written to the log on upload
const maxLoggedWarnings = 20

// Publisher receives session change notifications
type Publisher interface {
	Publish(ctx context.Context, msgType events.MessageType, data interface{}) error
}

// ViewState holds the user's presentation parameters
type ViewState struct {
	Threshold float64 `json:"threshold"`
	Highlight bool    `json:"highlight"`
	View      string  `json:"view"`
}

// Session is one ingested file and everything derived from it.
// A Session is never modified after creation; uploads replace it wholesale.
type Session struct {
	ID         string
	FileName   string
	UploadedAt time.Time
	Dataset    *dataprocessing.Dataset
	Result     dataprocessing.Result
	Chart      dataprocessing.Chart
}

// Summary describes the loaded session
type Summary struct {
	SessionID  string                           `json:"session_id"`
	FileName   string                           `json:"file_name"`
	UploadedAt time.Time                        `json:"uploaded_at"`
	Records    int                              `json:"records"`
	Jobs       []string                         `json:"jobs"`
	Dates      []string                         `json:"dates"`
	TotalHours float64                          `json:"total_hours"`
	Warnings   []dataprocessing.CoercionWarning `json:"warnings"`
	View       ViewState                        `json:"view"`
}

// ExportFile is a rendered export ready to be downloaded
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService owns the in-memory session and the view state.
// Readers always see a consistent snapshot; writers swap whole values.
type ReportService struct {
	mu      sync.RWMutex
	session *Session
	view    ViewState

	cfg       config.ReportConfig
	processor *dataprocessing.Processor
	publisher Publisher
	metrics   *infrastructure.ReportMetrics
	logger    *slog.Logger
}

// NewReportService creates the service. publisher and metrics may be nil.
func NewReportService(cfg config.ReportConfig, publisher Publisher, metrics *infrastructure.ReportMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "report_service"))

	return &ReportService{
		view: ViewState{
			Threshold: dataprocessing.ClampThresholdTo(cfg.DefaultThreshold, cfg.MinThreshold, cfg.MaxThreshold),
			View:      v1.ViewTable,
		},
		cfg:       cfg,
		processor: dataprocessing.NewProcessor(logger),
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Upload parses a CSV or XLSX file and replaces the current session.
// Highlighting is reset; the threshold and view are kept.
func (s *ReportService) Upload(ctx context.Context, fileName string, r io.Reader) (Summary, error) {
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return Summary{}, ErrEmptyFileName
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")

	ctx, span := infrastructure.StartSpan(ctx, "report.upload",
		attribute.String("file.name", fileName),
		attribute.String("file.format", format))
	defer span.End()

	start := time.Now()
	dataset, err := dataprocessing.ParseFile(fileName, r)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordUpload(ctx, format, 0, 0, time.Since(start), err)
		s.logger.WarnContext(ctx, "upload rejected",
			slog.String("file_name", fileName),
			slog.String("error", err.Error()))
		return Summary{}, apierrors.NewParsingError("failed to read "+fileName, err).
			WithContext("file_name", fileName)
	}

	_, buildSpan := infrastructure.StartSpan(ctx, "report.aggregate",
		attribute.Int("records", len(dataset.Records)))
	result := s.processor.Build(dataset.Records)
	chart := dataprocessing.BuildChart(dataset.Raw)
	buildSpan.End()

	s.metrics.RecordUpload(ctx, format, len(dataset.Records), len(dataset.Warnings), time.Since(start), nil)
	s.logWarnings(ctx, fileName, dataset.Warnings)

	session := &Session{
		ID:         uuid.New().String(),
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
		Dataset:    dataset,
		Result:     result,
		Chart:      chart,
	}

	s.mu.Lock()
	s.session = session
	s.view.Highlight = false
	view := s.view
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session loaded",
		slog.String("session_id", session.ID),
		slog.String("file_name", fileName),
		slog.Int("records", result.Records),
		slog.Int("jobs", result.Pivot.Len()),
		slog.Int("warnings", len(dataset.Warnings)))

	s.publish(ctx, events.MessageTypeSessionUpdated, sessionSnapshot(session))
	return summarize(session, view), nil
}

func (s *ReportService) logWarnings(ctx context.Context, fileName string, warnings []dataprocessing.CoercionWarning) {
	for i, w := range warnings {
		if i == maxLoggedWarnings {
			s.logger.WarnContext(ctx, "further coercion warnings omitted",
				slog.String("file_name", fileName),
				slog.Int("omitted", len(warnings)-maxLoggedWarnings))
			return
		}
		s.logger.WarnContext(ctx, "non-numeric hours counted as 0",
			slog.String("file_name", fileName),
			slog.Int("row", w.Row),
			slog.String("field", w.Field),
			slog.String("value", w.Value))
	}
}

// SetThreshold clamps and stores the threshold. Highlighting is reset.
func (s *ReportService) SetThreshold(ctx context.Context, threshold float64) ViewState {
	clamped := dataprocessing.ClampThresholdTo(threshold, s.cfg.MinThreshold, s.cfg.MaxThreshold)

	s.mu.Lock()
	s.view.Threshold = clamped
	s.view.Highlight = false
	view, id := s.view, s.sessionID()
	s.mu.Unlock()

	if clamped != threshold {
		s.logger.DebugContext(ctx, "threshold clamped",
			slog.Float64("requested", threshold),
			slog.Float64("threshold", clamped))
	}

	s.publish(ctx, events.MessageTypeViewUpdated, viewSnapshot(id, view))
	return view
}

// ApplyHighlight turns on highlighting for the current threshold
func (s *ReportService) ApplyHighlight(ctx context.Context) (ViewState, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ViewState{}, ErrNoSession
	}
	s.view.Highlight = true
	view, id := s.view, s.sessionID()
	s.mu.Unlock()

	s.publish(ctx, events.MessageTypeViewUpdated, viewSnapshot(id, view))
	return view, nil
}

// SetView switches between the table and dashboard views
func (s *ReportService) SetView(ctx context.Context, view string) ViewState {
	s.mu.Lock()
	s.view.View = view
	state, id := s.view, s.sessionID()
	s.mu.Unlock()

	s.publish(ctx, events.MessageTypeViewUpdated, viewSnapshot(id, state))
	return state
}

// Clear discards the session. It reports whether there was one.
func (s *ReportService) Clear(ctx context.Context) bool {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.view.Highlight = false
	s.mu.Unlock()

	if prev == nil {
		return false
	}

	s.logger.InfoContext(ctx, "session cleared", slog.String("session_id", prev.ID))
	s.publish(ctx, events.MessageTypeSessionCleared, map[string]string{"session_id": prev.ID})
	return true
}

// Snapshot returns the current session, nil if none, with the view state
func (s *ReportService) Snapshot() (*Session, ViewState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.view
}

// Summary describes the loaded session
func (s *ReportService) Summary(ctx context.Context) (Summary, error) {
	session, view := s.Snapshot()
	if session == nil {
		return Summary{}, ErrNoSession
	}
	return summarize(session, view), nil
}

// Table lays out the pivot for the jobs matching search
func (s *ReportService) Table(ctx context.Context, search string) (dataprocessing.TableView, error) {
	session, view := s.Snapshot()
	if session == nil {
		return dataprocessing.TableView{}, ErrNoSession
	}

	return session.Result.Table(dataprocessing.TableOptions{
		Threshold: view.Threshold,
		Highlight: view.Highlight,
		Search:    strings.TrimSpace(search),
	}), nil
}

// Dashboard returns the chart series of the loaded file
func (s *ReportService) Dashboard(ctx context.Context) (dataprocessing.Chart, error) {
	session, _ := s.Snapshot()
	if session == nil {
		return dataprocessing.Chart{}, ErrNoSession
	}
	return session.Chart, nil
}

// Export renders the flattened pivot in the requested format
func (s *ReportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	session, view := s.Snapshot()
	if session == nil {
		return nil, ErrNoSession
	}

	ctx, span := infrastructure.StartSpan(ctx, "report.export",
		attribute.String("export.format", format),
		attribute.String("session.id", session.ID))
	defer span.End()

	e, err := exporter.New(format, s.cfg.SheetName)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	var buf bytes.Buffer
	sheet := exporter.NewSheet(session.Result, view.Threshold, view.Highlight)
	if err := e.Write(&buf, sheet); err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordExport(ctx, e.Format(), err)
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", e.Format()),
			slog.String("error", err.Error()))
		return nil, apierrors.NewExportError(fmt.Sprintf("failed to write %s export", e.Format()), err).
			WithContext("format", e.Format())
	}
	s.metrics.RecordExport(ctx, e.Format(), nil)

	s.logger.InfoContext(ctx, "report exported",
		slog.String("format", e.Format()),
		slog.Int("rows", len(sheet.Rows)),
		slog.Int("bytes", buf.Len()))

	return &ExportFile{
		FileName:    exporter.FileName(s.cfg.ExportFileName, e),
		ContentType: e.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// sessionID must be called with s.mu held
func (s *ReportService) sessionID() string {
	if s.session == nil {
		return ""
	}
	return s.session.ID
}

func (s *ReportService) publish(ctx context.Context, msgType events.MessageType, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, msgType, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish session event",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
	}
}

func summarize(session *Session, view ViewState) Summary {
	warnings := session.Dataset.Warnings
	if warnings == nil {
		warnings = []dataprocessing.CoercionWarning{}
	}
	dates := session.Result.Dates
	if dates == nil {
		dates = []string{}
	}

	return Summary{
		SessionID:  session.ID,
		FileName:   session.FileName,
		UploadedAt: session.UploadedAt,
		Records:    session.Result.Records,
		Jobs:       session.Result.Pivot.Jobs(),
		Dates:      dates,
		TotalHours: session.Result.Total,
		Warnings:   warnings,
		View:       view,
	}
}

func sessionSnapshot(session *Session) events.SessionSnapshot {
	return events.SessionSnapshot{
		SessionID: session.ID,
		FileName:  session.FileName,
		Records:   session.Result.Records,
		Jobs:      session.Result.Pivot.Len(),
		Dates:     session.Result.Dates,
		Warnings:  len(session.Dataset.Warnings),
	}
}

func viewSnapshot(sessionID string, view ViewState) events.ViewSnapshot {
	return events.ViewSnapshot{
		SessionID: sessionID,
		Threshold: view.Threshold,
		Highlight: view.Highlight,
		View:      view.View,
	}
}
