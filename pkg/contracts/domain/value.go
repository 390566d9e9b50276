package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// numericPattern accepts plain decimal and scientific notation, the same
// shapes a spreadsheet would treat as numbers. Hex floats, "NaN" and "Inf"
// are rejected even though strconv accepts them.
var numericPattern = regexp.MustCompile(`^\s*-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?\s*$`)

// ValueKind is the inferred type of a raw cell.
type ValueKind string

const (
	KindNull   ValueKind = "null"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindText   ValueKind = "text"
)

// Value is a raw cell with its inferred type.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
}

// InferValue types a raw cell: empty cells are null, numeric-looking text is a
// number, true/false is a bool, everything else stays text.
func InferValue(raw string) Value {
	if raw == "" {
		return Value{Kind: KindNull}
	}
	switch raw {
	case "true", "TRUE", "True":
		return Value{Kind: KindBool, Bool: true, Text: raw}
	case "false", "FALSE", "False":
		return Value{Kind: KindBool, Bool: false, Text: raw}
	}
	if numericPattern.MatchString(raw) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return Value{Kind: KindNumber, Number: v, Text: raw}
		}
	}
	return Value{Kind: KindText, Text: raw}
}

// IsNull reports whether the cell was empty or absent.
func (v Value) IsNull() bool {
	return v.Kind == "" || v.Kind == KindNull
}

// String renders the value the way it is used as a grouping key.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// Float converts the value to a number. Text that is not numeric yields false.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// MarshalJSON renders numbers and bools natively and nulls as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// RawTable is the ingested file as typed cells, header order preserved.
type RawTable struct {
	Header []string
	Rows   []RawRow
}

// RawRow holds one cell per header column; cells missing from a short row are null.
type RawRow []Value

// Cell returns the value of column i, or null when the row is short.
func (r RawRow) Cell(i int) Value {
	if i < 0 || i >= len(r) {
		return Value{Kind: KindNull}
	}
	return r[i]
}

// ColumnIndex returns the position of a header column or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
