package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hoursreport/internal/dataprocessing"
)

// DefaultSheetName is the name of the single worksheet.
const DefaultSheetName = "Employee Hours"

const (
	highlightFill = "#FDE68A"
	countFill     = "#E5E7EB"
)

// XLSXWriter writes the sheet as an Excel workbook.
type XLSXWriter struct {
	sheetName string
}

// NewXLSXWriter creates a workbook writer. An empty name uses DefaultSheetName.
func NewXLSXWriter(sheetName string) *XLSXWriter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &XLSXWriter{sheetName: sheetName}
}

func (w *XLSXWriter) Format() string { return FormatXLSX }

func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type xlsxStyles struct {
	header, count, highlight int
}

// Write builds the workbook in memory and streams it to out.
func (w *XLSXWriter) Write(out io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if !sheet.Empty() {
		styles, err := w.newStyles(f)
		if err != nil {
			return err
		}
		if err := w.writeRows(f, sheet, styles); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) newStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	s.count, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{countFill}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create count style: %w", err)
	}
	s.highlight, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightFill}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create highlight style: %w", err)
	}
	return s, nil
}

func (w *XLSXWriter) writeRows(f *excelize.File, sheet Sheet, styles xlsxStyles) error {
	header := make([]any, len(sheet.Columns))
	for i, c := range sheet.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(w.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := w.styleRow(f, 1, len(header), styles.header); err != nil {
		return err
	}

	countLabel := dataprocessing.CountLabel(sheet.Threshold)
	for i, row := range sheet.Rows {
		rowNum := i + 2
		if row.IsBlank() {
			continue
		}

		values := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = c.Value
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(w.sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}

		if isCountRow(values, countLabel) {
			if err := w.styleRow(f, rowNum, len(values), styles.count); err != nil {
				return err
			}
			continue
		}
		if !sheet.Highlight {
			continue
		}
		for j, v := range values {
			hours, ok := v.(float64)
			if !ok || !dataprocessing.Highlighted(hours, sheet.Threshold, true) {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(w.sheetName, ref, ref, styles.highlight); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", ref, err)
			}
		}
	}

	return f.SetColWidth(w.sheetName, "A", "B", 28)
}

func (w *XLSXWriter) styleRow(f *excelize.File, rowNum, width, style int) error {
	if width == 0 {
		return nil
	}
	first, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(width, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(w.sheetName, first, last, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", rowNum, err)
	}
	return nil
}

// isCountRow matches the count row by its label and empty employee cell.
// Employee rows never have an empty employee because blanks become "Unknown".
func isCountRow(values []any, label string) bool {
	if len(values) < 2 {
		return false
	}
	return values[0] == label && values[1] == ""
}
