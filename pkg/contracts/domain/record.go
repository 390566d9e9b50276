package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnknownBucket is the grouping key used when a text field is missing.
const UnknownBucket = "Unknown"

// Recognized column names of a time-tracking export.
const (
	ColumnJobDescription = "JobDescription"
	ColumnEmpName        = "EmpName"
	ColumnCheckDate      = "CheckDate"
	ColumnESSickHours    = "ESSickHours"
	ColumnEWALIWALIHours = "EWALIWALIHours"
)

// Record is one time-tracking row with the fields the pivot cares about.
// Columns not listed here are kept in the RawTable the record came from.
type Record struct {
	JobDescription string `csv:"JobDescription" json:"job_description"`
	EmpName        string `csv:"EmpName" json:"emp_name"`
	CheckDate      string `csv:"CheckDate" json:"check_date"`
	ESSickHours    Hours  `csv:"ESSickHours" json:"es_sick_hours"`
	EWALIWALIHours Hours  `csv:"EWALIWALIHours" json:"ewaliwali_hours"`
}

// Job returns the job description grouping key.
func (r Record) Job() string {
	return textOrUnknown(r.JobDescription)
}

// Employee returns the employee grouping key.
func (r Record) Employee() string {
	return textOrUnknown(r.EmpName)
}

// Date returns the check date grouping key.
func (r Record) Date() string {
	return textOrUnknown(r.CheckDate)
}

// TotalHours is the record's contribution to its pivot cell.
func (r Record) TotalHours() float64 {
	return r.ESSickHours.Value + r.EWALIWALIHours.Value
}

func textOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownBucket
	}
	return s
}

// Hours is a numeric cell coerced at ingestion time. A cell that cannot be
// read as a finite number contributes 0 and is flagged Invalid; an absent or
// empty cell contributes 0 without being flagged.
type Hours struct {
	Value   float64
	Raw     string
	Invalid bool
}

// ParseHours coerces a raw cell into Hours. It never fails.
func ParseHours(raw string) Hours {
	h := Hours{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return h
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || !numericPattern.MatchString(s) {
		h.Invalid = true
		return h
	}
	h.Value = v
	return h
}

// NewHours builds Hours from an already numeric value.
func NewHours(v float64) Hours {
	return Hours{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (h *Hours) UnmarshalCSV(raw string) error {
	*h = ParseHours(raw)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (h Hours) MarshalCSV() (string, error) {
	return h.Raw, nil
}

// MarshalJSON writes the coerced value only.
func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Value)
}
