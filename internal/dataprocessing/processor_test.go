package dataprocessing

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoursreport/pkg/contracts/domain"
)

func TestProcessorBuild(t *testing.T) {
	tests := []struct {
		name    string
		logger  *slog.Logger
		records []domain.Record
		jobs    int
		dates   []string
		total   float64
	}{
		{
			name:    "sample records",
			logger:  slog.New(slog.NewTextHandler(os.Stdout, nil)),
			records: sampleRecords(),
			jobs:    3,
			dates:   []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			total:   27.5,
		},
		{
			name:   "nil logger uses default",
			logger: nil,
			jobs:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewProcessor(tt.logger).Build(tt.records)
			assert.Equal(t, tt.jobs, res.Pivot.Len())
			assert.Equal(t, tt.dates, res.Dates)
			assert.Equal(t, len(tt.records), res.Records)
			assert.InDelta(t, tt.total, res.Total, 1e-9)
		})
	}
}

func TestResultTable(t *testing.T) {
	res := Build([]domain.Record{
		rec("Nurse", "Alice", "2024-01-01", "40", "5"),
		rec("Nurse", "Bob", "2024-01-02", "12", ""),
		rec("Clerk", "Carol", "2024-01-01", "8", ""),
	})

	t.Run("highlight applied", func(t *testing.T) {
		view := res.Table(TableOptions{Threshold: 40, Highlight: true})
		require.Len(t, view.Groups, 2)
		assert.Equal(t, "COUNT >= 40 HRS", view.CountLabel)

		nurse := view.Groups[0]
		assert.Equal(t, "Nurse", nurse.Job)
		require.Len(t, nurse.Employees, 2)
		alice := nurse.Employees[0].Cells
		assert.Equal(t, "45.0", alice[0].Display)
		assert.True(t, alice[0].Highlighted)
		assert.False(t, alice[1].Highlighted)
		assert.Equal(t, []CountCell{
			{Date: "2024-01-01", Count: 1, Positive: true},
			{Date: "2024-01-02", Count: 0, Positive: false},
		}, nurse.Counts)
	})

	t.Run("highlight not applied", func(t *testing.T) {
		view := res.Table(TableOptions{Threshold: 40})
		for _, g := range view.Groups {
			for _, e := range g.Employees {
				for _, c := range e.Cells {
					assert.False(t, c.Highlighted)
				}
			}
		}
	})

	t.Run("search filters groups", func(t *testing.T) {
		view := res.Table(TableOptions{Threshold: 40, Search: "CLE"})
		require.Len(t, view.Groups, 1)
		assert.Equal(t, "Clerk", view.Groups[0].Job)
	})
}

func TestResultTableEmpty(t *testing.T) {
	view := Build(nil).Table(TableOptions{Threshold: 40})
	assert.Empty(t, view.Groups)
	assert.NotNil(t, view.Dates)
}
