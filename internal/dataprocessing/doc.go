// Package dataprocessing turns employee time-tracking exports into the hours pivot
// and the views derived from it.
//
// # Architecture
//
// The package is organized into three stages:
//
// 1. Parser: reads CSV or XLSX bytes into domain.Record values plus the raw typed table
// 2. Aggregator: builds the job -> employee -> check date pivot and the date axis
// 3. Queries: threshold counts, job search, export flattening and chart series
//
// Every function after the parser is pure. Views are rebuilt from the records on
// each change rather than updated in place.
//
// # Usage
//
//	ds, err := dataprocessing.ParseFile("hours.csv", f)
//	if err != nil {
//	    return err
//	}
//	result := dataprocessing.Build(ds.Records)
//	rows := dataprocessing.Flatten(result.Pivot, result.Dates, 40)
//
// # Data Flow
//
//	CSV/XLSX -> Parser -> Records -> Aggregate -> PivotTable -> Flatten -> Exporter
//
// # Error Handling
//
// Malformed hours never fail a parse. They contribute 0 and are reported as
// CoercionWarning values alongside the records. Only unreadable input and
// unsupported file types return errors.
package dataprocessing
