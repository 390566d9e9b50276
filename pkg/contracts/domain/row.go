package domain

import (
	"bytes"
	"encoding/json"
)

// Cell is a named value in an export row.
type Cell struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// Row is an ordered export row. A row with no cells is the blank separator
// written after each job group.
type Row struct {
	Cells []Cell `json:"cells"`
}

// Get returns the value stored under column.
func (r Row) Get(column string) (any, bool) {
	for _, c := range r.Cells {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// IsBlank reports whether the row is a group separator.
func (r Row) IsBlank() bool {
	return len(r.Cells) == 0
}

// MarshalJSON writes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalUnescaped(c.Column)
		if err != nil {
			return nil, err
		}
		v, err := marshalUnescaped(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
