package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"hoursreport/pkg/contracts/domain"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const utf8BOM = "\ufeff"

// CoercionWarning records a numeric cell that could not be read and was counted as 0.
type CoercionWarning struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("row %d: %s=%q is not a number, counted as 0", w.Row, w.Field, w.Value)
}

// Dataset is the result of ingesting one file.
type Dataset struct {
	Records  []domain.Record
	Raw      domain.RawTable
	Warnings []CoercionWarning
}

// ParseFile dispatches on the file extension. Files without an extension are read as CSV.
func ParseFile(name string, r io.Reader) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// SupportedFile reports whether ParseFile can read a file with this name.
func SupportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ParseCSV reads a CSV export whose first row is the header.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	var lines []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return buildDataset(rows, lines)
}

// ParseXLSX reads the first sheet of a workbook; its first row is the header.
func ParseXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Dataset{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return buildDataset(rows, lines)
}

func buildDataset(rows [][]string, lines []int) (*Dataset, error) {
	if len(rows) == 0 {
		return &Dataset{}, nil
	}

	header := make([]string, len(rows[0]))
	copy(header, rows[0])
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	body := make([][]string, 0, len(rows)-1)
	bodyLines := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		body = append(body, alignRow(row, len(header)))
		bodyLines = append(bodyLines, lineAt(lines, i+1))
	}

	ds := &Dataset{Raw: domain.RawTable{Header: header}}
	if len(body) == 0 {
		return ds, nil
	}

	in := &rowsReader{rows: append([][]string{header}, body...)}
	if err := gocsv.UnmarshalCSV(in, &ds.Records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	ds.Raw.Rows = make([]domain.RawRow, len(body))
	for i, row := range body {
		raw := make(domain.RawRow, len(header))
		for j, cell := range row {
			raw[j] = domain.InferValue(cell)
		}
		ds.Raw.Rows[i] = raw
	}

	for i, rec := range ds.Records {
		ds.Warnings = append(ds.Warnings, recordWarnings(lineAt(bodyLines, i), rec)...)
	}
	return ds, nil
}

func lineAt(lines []int, i int) int {
	if i < len(lines) {
		return lines[i]
	}
	return i + 1
}

func recordWarnings(line int, rec domain.Record) []CoercionWarning {
	var out []CoercionWarning
	if rec.ESSickHours.Invalid {
		out = append(out, CoercionWarning{Row: line, Field: domain.ColumnESSickHours, Value: rec.ESSickHours.Raw})
	}
	if rec.EWALIWALIHours.Invalid {
		out = append(out, CoercionWarning{Row: line, Field: domain.ColumnEWALIWALIHours, Value: rec.EWALIWALIHours.Raw})
	}
	return out
}

// alignRow pads short rows with empty cells and drops cells past the header.
func alignRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// rowsReader feeds already split rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}
