package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"hoursreport/internal/dataprocessing"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	highlightStyle = cellStyle.Background(lipgloss.Color("#FFEB9C")).Foreground(lipgloss.Color("#000000"))
	countStyle     = cellStyle.Faint(true)
	positiveStyle  = cellStyle.Bold(true).Foreground(lipgloss.Color("#006100"))
	emptyStyle     = lipgloss.NewStyle().Faint(true)
)

// renderTable draws one bordered table per job group
func renderTable(view dataprocessing.TableView) string {
	if len(view.Groups) == 0 {
		if view.Search != "" {
			return emptyStyle.Render("No job descriptions match "+strconv.Quote(view.Search)) + "\n"
		}
		return emptyStyle.Render("No records") + "\n"
	}

	var b strings.Builder
	for _, g := range view.Groups {
		b.WriteString(titleStyle.Render(g.Job))
		b.WriteByte('\n')
		b.WriteString(groupTable(view, g).Render())
		b.WriteByte('\n')
	}
	return b.String()
}

func groupTable(view dataprocessing.TableView, g dataprocessing.GroupView) *table.Table {
	headers := append([]string{"Employee"}, view.Dates...)

	rows := make([][]string, 0, len(g.Employees)+1)
	for _, emp := range g.Employees {
		row := make([]string, 0, len(emp.Cells)+1)
		row = append(row, emp.Employee)
		for _, c := range emp.Cells {
			row = append(row, c.Display)
		}
		rows = append(rows, row)
	}

	counts := make([]string, 0, len(g.Counts)+1)
	counts = append(counts, view.CountLabel)
	for _, c := range g.Counts {
		counts = append(counts, strconv.Itoa(c.Count))
	}
	rows = append(rows, counts)
	countRow := len(rows) - 1

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			case row == countRow:
				if g.Counts[col-1].Positive {
					return positiveStyle
				}
				return countStyle
			case g.Employees[row].Cells[col-1].Highlighted:
				return highlightStyle
			}
			return cellStyle
		})
}
