// Package exporter writes the flattened hours pivot as downloadable files.
//
// Two writers share the Exporter interface:
//
// XLSXWriter: an Excel workbook with a single sheet, bold header and count
// rows, and optional fill on cells at or above the threshold.
//
// CSVWriter: the same rows as CSV with a UTF-8 BOM for Excel compatibility.
//
// Example usage:
//
//	sheet := exporter.NewSheet(result, threshold, highlight)
//	w, err := exporter.New(exporter.FormatXLSX, cfg.Report.SheetName)
//	if err != nil {
//	    return err
//	}
//	err = w.Write(out, sheet)
package exporter
