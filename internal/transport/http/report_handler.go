package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"hoursreport/internal/dataprocessing"
	apierrors "hoursreport/internal/errors"
	"hoursreport/internal/exporter"
	mw "hoursreport/internal/middleware"
	"hoursreport/internal/services"
	v1 "hoursreport/pkg/contracts/api/v1"
)

// uploadField is the multipart form field carrying the hours file
const uploadField = "file"

// ReportHandler exposes the pivot report over HTTP
type ReportHandler struct {
	service        ReportServiceInterface
	validator      *mw.Validator
	query          *mw.QueryParamValidator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewReportHandler creates a report handler
func NewReportHandler(service ReportServiceInterface, validator *mw.Validator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:        service,
		validator:      validator,
		query:          mw.NewQueryParamValidator(errorHandler),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes, mounted under /api/report
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSummary)
	r.Delete("/", h.ClearSession)
	r.Post("/upload", h.Upload)
	r.Get("/table", h.GetTable)
	r.Get("/dashboard", h.GetDashboard)
	r.Post("/highlight", h.ApplyHighlight)

	r.Group(func(r chi.Router) {
		r.Use(mw.ContentTypeValidator(h.errorHandler, "application/json"))
		r.Put("/threshold", h.SetThreshold)
		r.Put("/view", h.SetView)
	})

	r.Get("/export", h.Export)
	r.Get("/export.xlsx", h.exportAs(exporter.FormatXLSX))
	r.Get("/export.csv", h.exportAs(exporter.FormatCSV))

	return r
}

func success(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	writeJSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// writeJSON behaves like render.JSON but leaves <, > and & unescaped
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status, ok := r.Context().Value(render.StatusCtxKey).(int); ok {
		w.WriteHeader(status)
	}
	_, _ = w.Write(buf.Bytes())
}

// Upload handles POST /api/report/upload
func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadField, "file is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "upload received",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file_name", header.Filename),
		slog.Int64("size", header.Size))

	summary, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}

	success(w, r, http.StatusCreated, summary)
}

func (h *ReportHandler) uploadError(err error) error {
	switch {
	case errors.Is(err, dataprocessing.ErrUnsupportedFormat):
		return apierrors.NewWithDetails(http.StatusUnsupportedMediaType, apierrors.CodeUnsupportedFile,
			apierrors.ErrUnsupportedFile.Message, err.Error())
	case errors.Is(err, services.ErrEmptyFileName):
		return apierrors.ErrValidation(uploadField, "file name is required")
	case errors.As(err, new(*apierrors.AppError)):
		return err
	default:
		return apierrors.UploadError(err)
	}
}

// GetSummary handles GET /api/report
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.sessionError(err))
		return
	}
	success(w, r, http.StatusOK, summary)
}

// GetTable handles GET /api/report/table?search=
func (h *ReportHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	q := v1.TableQuery{Search: r.URL.Query().Get("search")}
	if err := h.validator.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.Table(r.Context(), q.Search)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.sessionError(err))
		return
	}
	success(w, r, http.StatusOK, table)
}

// GetDashboard handles GET /api/report/dashboard
func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.sessionError(err))
		return
	}
	success(w, r, http.StatusOK, chart)
}

// SetThreshold handles PUT /api/report/threshold
func (h *ReportHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	var req v1.ThresholdRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, http.StatusOK, h.service.SetThreshold(r.Context(), *req.Threshold))
}

// ApplyHighlight handles POST /api/report/highlight
func (h *ReportHandler) ApplyHighlight(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ApplyHighlight(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.sessionError(err))
		return
	}
	success(w, r, http.StatusOK, view)
}

// SetView handles PUT /api/report/view
func (h *ReportHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req v1.ViewRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, http.StatusOK, h.service.SetView(r.Context(), req.View))
}

// ClearSession handles DELETE /api/report
func (h *ReportHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	if !h.service.Clear(r.Context()) {
		h.logger.DebugContext(r.Context(), "clear requested without a session")
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/report/export?format=xlsx|csv
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format", []string{exporter.FormatXLSX, exporter.FormatCSV}, exporter.FormatXLSX)
	if !ok {
		return
	}
	h.exportAs(format)(w, r)
}

func (h *ReportHandler) exportAs(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := h.service.Export(r.Context(), format)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoSession):
				h.errorHandler.HandleError(w, r, apierrors.ErrSessionNotLoaded)
			case errors.Is(err, exporter.ErrUnknownFormat):
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
			default:
				h.errorHandler.HandleError(w, r, apierrors.ExportError(format, err))
			}
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			h.logger.WarnContext(r.Context(), "export download interrupted",
				slog.String("file_name", file.FileName),
				slog.String("error", err.Error()))
		}
	}
}

func (h *ReportHandler) sessionError(err error) error {
	if errors.Is(err, services.ErrNoSession) {
		return apierrors.ErrSessionNotLoaded
	}
	return err
}
