package dataprocessing

import (
	"hoursreport/pkg/contracts/domain"
)

// MaxChartGroups is how many groups the dashboard shows.
const MaxChartGroups = 5

// NoChartDataMessage is shown when a numeric column exists but no row can be plotted.
const NoChartDataMessage = "No valid numeric data available for visualization"

// ChartPalette colors pie slices in order, wrapping around.
var ChartPalette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8"}

// ChartPoint is one aggregated group.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Chart is the dashboard payload: a bar series and a pie series over the same groups.
type Chart struct {
	Available bool         `json:"available"`
	Message   string       `json:"message,omitempty"`
	GroupBy   string       `json:"group_by,omitempty"`
	Metric    string       `json:"metric,omitempty"`
	Bar       []ChartPoint `json:"bar"`
	Pie       []ChartPoint `json:"pie"`
}

// BuildChart summarizes the raw table for the dashboard.
//
// The metric is the first column whose value in the first row is a number, and
// rows are grouped by the value of their first column. Rows missing either value
// are skipped. Groups keep their first-seen order and only the first
// MaxChartGroups are returned.
func BuildChart(raw domain.RawTable) Chart {
	chart := Chart{Bar: []ChartPoint{}, Pie: []ChartPoint{}}
	if len(raw.Rows) == 0 || len(raw.Header) == 0 {
		return chart
	}

	metric := -1
	for i := range raw.Header {
		if raw.Rows[0].Cell(i).Kind == domain.KindNumber {
			metric = i
			break
		}
	}
	if metric < 0 {
		return chart
	}
	chart.GroupBy = raw.Header[0]
	chart.Metric = raw.Header[metric]

	var order []string
	sums := make(map[string]float64)
	for _, row := range raw.Rows {
		group, value := row.Cell(0), row.Cell(metric)
		if group.IsNull() || value.IsNull() {
			continue
		}
		key := group.String()
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		n, _ := value.Float()
		sums[key] += n
	}

	if len(order) == 0 {
		chart.Message = NoChartDataMessage
		return chart
	}
	if len(order) > MaxChartGroups {
		order = order[:MaxChartGroups]
	}

	chart.Available = true
	for i, name := range order {
		chart.Bar = append(chart.Bar, ChartPoint{Name: name, Value: sums[name]})
		chart.Pie = append(chart.Pie, ChartPoint{
			Name:  name,
			Value: sums[name],
			Color: ChartPalette[i%len(ChartPalette)],
		})
	}
	return chart
}
