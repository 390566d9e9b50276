package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
)

// Threshold bounds and default, in hours.
const (
	DefaultThreshold = 40.0
	MinThreshold     = 0.0
	MaxThreshold     = 80.0
)

// ClampThreshold limits a threshold to [MinThreshold, MaxThreshold]. NaN becomes the minimum.
func ClampThreshold(v float64) float64 {
	return ClampThresholdTo(v, MinThreshold, MaxThreshold)
}

// ClampThresholdTo limits a threshold to [lo, hi]. NaN becomes lo.
func ClampThresholdTo(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// FormatThreshold renders a threshold without trailing zeros, e.g. 40 or 37.5.
func FormatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CountLabel is the JobDescription of a group's count row.
func CountLabel(threshold float64) string {
	return fmt.Sprintf("COUNT >= %s HRS", FormatThreshold(threshold))
}

// Highlighted reports whether a cell is emphasized. Cells are only emphasized
// after highlighting has been applied for the current threshold.
func Highlighted(hours, threshold float64, applied bool) bool {
	return applied && hours >= threshold
}

// FormatHours renders hours for display with one decimal.
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
