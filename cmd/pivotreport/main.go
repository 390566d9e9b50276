// Command pivotreport builds the Employee Hours Report from a CSV or XLSX
// time-tracking export without starting the web server.
//
//	pivotreport build --in hours.csv --out Employee_Hours_Report.xlsx --threshold 40 --print
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
