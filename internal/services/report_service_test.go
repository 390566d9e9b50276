package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hoursreport/internal/config"
	"hoursreport/internal/dataprocessing"
	apierrors "hoursreport/internal/errors"
	"hoursreport/internal/shared/testutil"
	v1 "hoursreport/pkg/contracts/api/v1"
	"hoursreport/pkg/contracts/events"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msgType events.MessageType, data interface{}) error {
	args := m.Called(ctx, msgType, data)
	return args.Error(0)
}

func newTestService(t *testing.T) (*ReportService, *mockPublisher, *testutil.CaptureHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return NewReportService(config.Default().Report, pub, nil, logger), pub, logs
}

func uploadSample(t *testing.T, s *ReportService) Summary {
	t.Helper()
	summary, err := s.Upload(context.Background(), "hours.csv", strings.NewReader(testutil.SampleHoursCSV()))
	require.NoError(t, err)
	return summary
}

func TestReportService_NoSession(t *testing.T) {
	s, pub, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Summary(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Table(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Dashboard(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Export(ctx, "xlsx")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.ApplyHighlight(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.False(t, s.Clear(ctx))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Upload(t *testing.T) {
	s, pub, logs := newTestService(t)

	summary := uploadSample(t, s)

	assert.NotEmpty(t, summary.SessionID)
	assert.Equal(t, "hours.csv", summary.FileName)
	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, []string{"Nurse", "Clerk"}, summary.Jobs)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, summary.Dates)
	assert.InDelta(t, 56.0, summary.TotalHours, 1e-9)
	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, "EWALIWALIHours", summary.Warnings[0].Field)
	assert.Equal(t, ViewState{Threshold: 40, View: v1.ViewTable}, summary.View)

	pub.AssertCalled(t, "Publish", mock.Anything, events.MessageTypeSessionUpdated, mock.MatchedBy(func(s events.SessionSnapshot) bool {
		return s.FileName == "hours.csv" && s.Records == 4 && s.Jobs == 2 && s.Warnings == 1
	}))
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "non-numeric hours counted as 0")
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "session loaded")
}

func TestReportService_UploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		body     string
		wantErr  error
	}{
		{"unsupported extension", "hours.pdf", "x", dataprocessing.ErrUnsupportedFormat},
		{"missing name", "", "x", ErrEmptyFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, pub, _ := newTestService(t)

			_, err := s.Upload(context.Background(), tt.fileName, strings.NewReader(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)

			session, _ := s.Snapshot()
			assert.Nil(t, session)
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReportService_UploadKeepsPreviousSessionOnError(t *testing.T) {
	s, _, _ := newTestService(t)
	first := uploadSample(t, s)

	_, err := s.Upload(context.Background(), "broken.xlsx", strings.NewReader("not a workbook"))
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, "broken.xlsx", appErr.Context["file_name"])

	summary, err := s.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, summary.SessionID)
}

func TestReportService_EmptyFile(t *testing.T) {
	s, _, _ := newTestService(t)

	summary, err := s.Upload(context.Background(), "empty.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Records)
	assert.Empty(t, summary.Jobs)
	assert.Equal(t, []string{}, summary.Dates)

	table, err := s.Table(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, table.Groups)
}

func TestReportService_ThresholdAndHighlight(t *testing.T) {
	s, pub, _ := newTestService(t)
	ctx := context.Background()
	uploadSample(t, s)

	view, err := s.ApplyHighlight(ctx)
	require.NoError(t, err)
	assert.True(t, view.Highlight)

	table, err := s.Table(ctx, "nurse")
	require.NoError(t, err)
	require.Len(t, table.Groups, 1)
	alice := table.Groups[0].Employees[0]
	assert.Equal(t, "Alice", alice.Employee)
	assert.True(t, alice.Cells[0].Highlighted)
	assert.Equal(t, "45.0", alice.Cells[0].Display)
	assert.Equal(t, 1, table.Groups[0].Counts[0].Count)

	// Changing the threshold clears the highlight
	view = s.SetThreshold(ctx, 120)
	assert.Equal(t, 80.0, view.Threshold)
	assert.False(t, view.Highlight)

	table, err = s.Table(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "COUNT >= 80 HRS", table.CountLabel)
	assert.False(t, table.Groups[0].Employees[0].Cells[0].Highlighted)
	assert.Equal(t, 0, table.Groups[0].Counts[0].Count)

	assert.Equal(t, 0.0, s.SetThreshold(ctx, -5).Threshold)

	pub.AssertCalled(t, "Publish", mock.Anything, events.MessageTypeViewUpdated, mock.MatchedBy(func(v events.ViewSnapshot) bool {
		return v.Threshold == 80 && !v.Highlight
	}))
}

func TestReportService_UploadResetsHighlightKeepsThreshold(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	s.SetThreshold(ctx, 30)
	uploadSample(t, s)
	_, err := s.ApplyHighlight(ctx)
	require.NoError(t, err)

	summary := uploadSample(t, s)
	assert.Equal(t, 30.0, summary.View.Threshold)
	assert.False(t, summary.View.Highlight)
}

func TestReportService_SetView(t *testing.T) {
	s, pub, _ := newTestService(t)

	view := s.SetView(context.Background(), v1.ViewDashboard)
	assert.Equal(t, v1.ViewDashboard, view.View)

	_, state := s.Snapshot()
	assert.Equal(t, v1.ViewDashboard, state.View)
	pub.AssertCalled(t, "Publish", mock.Anything, events.MessageTypeViewUpdated, mock.Anything)
}

func TestReportService_Dashboard(t *testing.T) {
	s, _, _ := newTestService(t)
	uploadSample(t, s)

	chart, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	require.True(t, chart.Available)
	assert.Equal(t, "JobDescription", chart.GroupBy)
	assert.Equal(t, "ESSickHours", chart.Metric)
	require.Len(t, chart.Bar, 2)
	assert.Equal(t, "Nurse", chart.Bar[0].Name)
	assert.InDelta(t, 53.0, chart.Bar[0].Value, 1e-9)
}

func TestReportService_Export(t *testing.T) {
	s, _, _ := newTestService(t)
	uploadSample(t, s)
	ctx := context.Background()

	t.Run("xlsx", func(t *testing.T) {
		file, err := s.Export(ctx, "xlsx")
		require.NoError(t, err)
		assert.Equal(t, "Employee_Hours_Report.xlsx", file.FileName)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows("Employee Hours")
		require.NoError(t, err)
		assert.Equal(t, []string{"JobDescription", "Employee", "2024-01-01", "2024-01-02"}, rows[0])
		assert.Equal(t, "Alice", rows[1][1])
		assert.Equal(t, "COUNT >= 40 HRS", rows[3][0])
	})

	t.Run("csv", func(t *testing.T) {
		file, err := s.Export(ctx, "CSV")
		require.NoError(t, err)
		assert.Equal(t, "Employee_Hours_Report.csv", file.FileName)
		assert.Contains(t, file.ContentType, "text/csv")
		assert.True(t, bytes.HasPrefix(file.Data, []byte("\ufeffJobDescription,Employee,")))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := s.Export(ctx, "pdf")
		assert.Error(t, err)
	})
}

func TestReportService_Clear(t *testing.T) {
	s, pub, _ := newTestService(t)
	ctx := context.Background()
	summary := uploadSample(t, s)

	assert.True(t, s.Clear(ctx))
	_, err := s.Summary(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	pub.AssertCalled(t, "Publish", mock.Anything, events.MessageTypeSessionCleared, map[string]string{"session_id": summary.SessionID})
	assert.False(t, s.Clear(ctx))
}

func TestReportService_PublishFailureIsLogged(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("queue closed"))

	s := NewReportService(config.Default().Report, pub, nil, logger)
	s.SetView(context.Background(), v1.ViewTable)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "failed to publish session event")
}

func TestReportService_ConcurrentReadersSeeWholeSessions(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	uploadSample(t, s)

	other := testutil.HoursCSV(testutil.HoursRow{Job: "Porter", Employee: "Zed", Date: "2024-02-01", Sick: "1", Wali: "1"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Upload(ctx, "other.csv", strings.NewReader(other))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			summary, err := s.Summary(ctx)
			if assert.NoError(t, err) {
				// Jobs and file name always come from the same upload
				if summary.FileName == "other.csv" {
					assert.Equal(t, []string{"Porter"}, summary.Jobs)
				} else {
					assert.Equal(t, []string{"Nurse", "Clerk"}, summary.Jobs)
				}
			}
		}()
	}
	wg.Wait()
}
