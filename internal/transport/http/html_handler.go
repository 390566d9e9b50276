package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"hoursreport/internal/config"
	"hoursreport/internal/dataprocessing"
	"hoursreport/internal/services"
	v1 "hoursreport/pkg/contracts/api/v1"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"percent": func(v, max float64) float64 {
		if max <= 0 {
			return 0
		}
		return v / max * 100
	},
}).ParseFS(templateFS, "templates/report.html"))

// SnapshotSource provides the current session for rendering
type SnapshotSource interface {
	Snapshot() (*services.Session, services.ViewState)
}

// PageHandler serves the server-rendered report page
type PageHandler struct {
	source SnapshotSource
	cfg    config.ReportConfig
	logger *slog.Logger
}

// pageData is the template model
type pageData struct {
	Title        string
	Loaded       bool
	FileName     string
	Records      int
	Warnings     []dataprocessing.CoercionWarning
	View         services.ViewState
	Dashboard    bool
	Search       string
	Table        dataprocessing.TableView
	Chart        dataprocessing.Chart
	ChartMax     float64
	MinThreshold float64
	MaxThreshold float64
}

// NewPageHandler creates the page handler
func NewPageHandler(source SnapshotSource, cfg config.ReportConfig, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		source: source,
		cfg:    cfg,
		logger: logger.With(slog.String("handler", "page")),
	}
}

// ServeHTTP handles GET /
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, view := h.source.Snapshot()

	data := pageData{
		Title:        config.AppName,
		View:         view,
		Dashboard:    view.View == v1.ViewDashboard,
		Search:       strings.TrimSpace(r.URL.Query().Get("search")),
		MinThreshold: h.cfg.MinThreshold,
		MaxThreshold: h.cfg.MaxThreshold,
	}
	if runes := []rune(data.Search); len(runes) > config.MaxSearchLength {
		data.Search = string(runes[:config.MaxSearchLength])
	}

	if session != nil {
		data.Loaded = true
		data.FileName = session.FileName
		data.Records = session.Result.Records
		data.Warnings = session.Dataset.Warnings
		data.Chart = session.Chart
		data.Table = session.Result.Table(dataprocessing.TableOptions{
			Threshold: view.Threshold,
			Highlight: view.Highlight,
			Search:    data.Search,
		})
		for _, p := range session.Chart.Bar {
			if p.Value > data.ChartMax {
				data.ChartMax = p.Value
			}
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
