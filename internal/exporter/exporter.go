package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hoursreport/internal/dataprocessing"
	apperrors "hoursreport/internal/errors"
	"hoursreport/pkg/contracts/domain"
)

// Supported export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// DefaultBaseName is the export file name without extension.
const DefaultBaseName = "Employee_Hours_Report"

// ErrUnknownFormat is returned by New for formats other than xlsx and csv.
var ErrUnknownFormat = errors.New("unknown export format")

// Sheet is the flattened pivot ready to be written.
type Sheet struct {
	Columns   []string
	Rows      []domain.Row
	Threshold float64
	Highlight bool
}

// NewSheet flattens a pivot result for export.
func NewSheet(res dataprocessing.Result, threshold float64, highlight bool) Sheet {
	rows := dataprocessing.Flatten(res.Pivot, res.Dates, threshold)
	s := Sheet{Rows: rows, Threshold: threshold, Highlight: highlight}
	if len(rows) > 0 {
		s.Columns = dataprocessing.ExportColumns(res.Dates)
	}
	return s
}

// Empty reports whether the sheet has no rows. Empty sheets are written without a header.
func (s Sheet) Empty() bool {
	return len(s.Rows) == 0
}

// Exporter writes a sheet in one file format.
type Exporter interface {
	Format() string
	ContentType() string
	Write(w io.Writer, sheet Sheet) error
}

// New returns the exporter for a format.
func New(format, sheetName string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return NewXLSXWriter(sheetName), nil
	case FormatCSV:
		return NewCSVWriter(true), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName joins a base name with the exporter's extension.
func FileName(base string, e Exporter) string {
	if base == "" {
		base = DefaultBaseName
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + e.Format()
}

// WriteFile writes a sheet to a path, creating parent directories.
func WriteFile(path string, e Exporter, sheet Sheet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create directory", err).WithContext("path", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err).WithContext("path", path)
	}
	if err := e.Write(file, sheet); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	return nil
}
