package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	bomPrefix bool
}

// NewCSVWriter creates a new CSV writer. bomPrefix adds a UTF-8 BOM so Excel
// recognizes the encoding.
func NewCSVWriter(bomPrefix bool) *CSVWriter {
	return &CSVWriter{bomPrefix: bomPrefix}
}

func (w *CSVWriter) Format() string { return FormatCSV }

func (w *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Write writes the header and every row. Blank separator rows become empty lines.
func (w *CSVWriter) Write(out io.Writer, sheet Sheet) error {
	if w.bomPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(out))

	if !sheet.Empty() {
		if err := writer.Write(sheet.Columns); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, row := range sheet.Rows {
		record := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			record = append(record, formatCell(c.Value))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
