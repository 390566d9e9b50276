package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoursreport/internal/config"
	"hoursreport/internal/services"
	"hoursreport/internal/shared/testutil"
	"hoursreport/pkg/contracts"
)

type fakeHub struct{ clients int }

func (f fakeHub) ClientCount() int { return f.clients }

func newHealthRouter(report *services.ReportService, hub services.ClientCounter) http.Handler {
	logger := discardLogger()
	h := NewHealthHandler(services.NewHealthService(report, hub, logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	report := services.NewReportService(config.Default().Report, nil, nil, discardLogger())
	h := newHealthRouter(report, fakeHub{clients: 2})

	tests := []struct {
		target     string
		wantStatus string
	}{
		{"/api/health", "ok"},
		{"/api/health/live", "alive"},
		{"/api/health/ready", "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var status services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, contracts.Version, status.Version)
		})
	}
}

func TestHealthHandler_ReadinessReportsSession(t *testing.T) {
	report := services.NewReportService(config.Default().Report, nil, nil, discardLogger())
	_, err := report.Upload(context.Background(), "hours.csv", strings.NewReader(testutil.SampleHoursCSV()))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newHealthRouter(report, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "session loaded: hours.csv", status.Services["report"].Message)
	assert.Equal(t, "push updates disabled", status.Services["websocket"].Message)
}

func TestHealthHandler_NotReady(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthRouter(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestHealthHandler_Version(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthRouter(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, contracts.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
