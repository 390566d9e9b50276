package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoursreport/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "session not loaded",
			err:        ErrSessionNotLoaded,
			wantStatus: http.StatusNotFound,
			wantType:   TypeSessionNotLoaded,
			wantCode:   CodeSessionNotLoaded,
		},
		{
			name:       "unsupported upload",
			err:        ErrUnsupportedFile,
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedFile,
			wantCode:   CodeUnsupportedFile,
		},
		{
			name:       "unreadable upload",
			err:        UploadError(fmt.Errorf("bad zip")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnreadableFile,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "wrapped validation error",
			err:        fmt.Errorf("decode: %w", ErrValidation("threshold", "too high")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeValidationFailed,
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 1024},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantCode:   CodePayloadTooLarge,
		},
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("export: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/report", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/report", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, w.Body.Len())
	assert.Empty(t, capture.Records())
}

func TestErrorHandler_LogLevels(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodPost, "/api/report/threshold", nil)

	handler.HandleError(httptest.NewRecorder(), r, ErrValidationFailed)
	handler.HandleError(httptest.NewRecorder(), r, fmt.Errorf("disk full"))

	warns := capture.ByLevel(slog.LevelWarn)
	errs := capture.ByLevel(slog.LevelError)
	require.Len(t, warns, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, "error_handler", warns[0].Attrs["component"])
	assert.Equal(t, int64(http.StatusInternalServerError), errs[0].Attrs["status"])
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodPut, "/api/report/view", nil)

	problem := handler.ErrorToProblem(ErrValidation("view", "must be table or chart"), r)
	assert.Equal(t, []ValidationError{{Field: "view", Message: "must be table or chart"}}, problem.Extensions["errors"])

	problem = handler.ErrorToProblem(ExportError("csv", fmt.Errorf("closed pipe")), r)
	assert.Equal(t, TypeExportFailed, problem.Type)
	assert.Equal(t, "closed pipe", problem.Extensions["details"])
}

func TestErrorHandler_AppErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantType   string
	}{
		{"parsing", NewParsingError("bad csv", nil), http.StatusUnprocessableEntity, TypeUnreadableFile},
		{"validation", NewAppError(ErrTypeValidation, "bad", nil), http.StatusBadRequest, TypeValidation},
		{"not found", NewAppError(ErrTypeNotFound, "gone", nil), http.StatusNotFound, TypeNotFound},
		{"export", NewExportError("xlsx", nil), http.StatusInternalServerError, TypeExportFailed},
		{"storage", NewStorageError("disk", nil), http.StatusInternalServerError, TypeInternal},
		{"config", NewConfigError("env", nil), http.StatusInternalServerError, TypeConfig},
	}

	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/report", nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err.WithContext("file", "hours.csv"), r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, string(tt.err.Type), problem.Extensions["error_type"])
			assert.Equal(t, map[string]interface{}{"file": "hours.csv"}, problem.Extensions["context"])
		})
	}
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))

	body := decodeProblem(t, w)
	stack, ok := body["stack"].(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(stack, "goroutine"))
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, capture := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/report", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, capture, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	var seenID string
	chain := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.GetReqID(r.Context())
		handler.NotFound(w, r)
	}))

	w := httptest.NewRecorder()
	chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, seenID, body["trace_id"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/report/threshold", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body = decodeProblem(t, w)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", body["detail"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "").
		WithExtension("error_code", CodeValidationFailed).
		WithExtension("type", "ignored")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}
