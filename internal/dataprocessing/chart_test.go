package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChart(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		available bool
		message   string
		names     []string
		values    []float64
	}{
		{
			name:      "groups by first column and sums first numeric column",
			csv:       "JobDescription,EmpName,ESSickHours\nNurse,Alice,8\nClerk,Bob,2\nNurse,Cara,4\n",
			available: true,
			names:     []string{"Nurse", "Clerk"},
			values:    []float64{12, 2},
		},
		{
			name:      "keeps only five groups",
			csv:       "Job,Hours\na,1\nb,1\nc,1\nd,1\ne,1\nf,1\n",
			available: true,
			names:     []string{"a", "b", "c", "d", "e"},
			values:    []float64{1, 1, 1, 1, 1},
		},
		{
			name:      "skips rows with missing values",
			csv:       "Job,Hours\nNurse,3\n,4\nClerk,\n",
			available: true,
			names:     []string{"Nurse"},
			values:    []float64{3},
		},
		{
			name: "no numeric column in first row",
			csv:  "Job,Emp\nNurse,Alice\n",
		},
		{
			name:    "numeric column but nothing to plot",
			csv:     "Job,Hours\n,4\n",
			message: NoChartDataMessage,
		},
		{
			name: "empty",
			csv:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseCSV(strings.NewReader(tt.csv))
			require.NoError(t, err)

			chart := BuildChart(ds.Raw)
			assert.Equal(t, tt.available, chart.Available)
			assert.Equal(t, tt.message, chart.Message)

			var names []string
			var values []float64
			for _, p := range chart.Bar {
				names = append(names, p.Name)
				values = append(values, p.Value)
			}
			assert.Equal(t, tt.names, names)
			assert.Equal(t, tt.values, values)
			assert.Len(t, chart.Pie, len(chart.Bar))
		})
	}
}

func TestBuildChartPalette(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("Job,Hours\na,1\nb,2\n"))
	require.NoError(t, err)

	chart := BuildChart(ds.Raw)
	require.Len(t, chart.Pie, 2)
	assert.Equal(t, "#0088FE", chart.Pie[0].Color)
	assert.Equal(t, "#00C49F", chart.Pie[1].Color)
	assert.Equal(t, "Job", chart.GroupBy)
	assert.Equal(t, "Hours", chart.Metric)
}
