// Package execution implements the physical side of the pipeline:
// executable plan nodes, the pull-based record stream, and the typed
// output record handed to renderers.
package execution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vegasq/logq/common"
)

// Record is one materialized query-result row: output column names
// paired with their values, in projection order. A fresh Record is
// built per row pulled from the stream; rows never alias each other.
type Record struct {
	columns []string
	values  common.Tuple
}

// NewRecord builds a record. columns and values must be the same
// length and are not copied; callers hand over ownership.
func NewRecord(columns []string, values common.Tuple) *Record {
	return &Record{columns: columns, values: values}
}

// Columns returns the output column names in order.
func (r *Record) Columns() []string {
	return r.columns
}

// Values returns the row values in column order.
func (r *Record) Values() common.Tuple {
	return r.values
}

// Pair is one (column, value) element of a record.
type Pair struct {
	Name  string
	Value common.Value
}

// ToPairs returns the record as ordered (name, value) pairs.
func (r *Record) ToPairs() []Pair {
	pairs := make([]Pair, len(r.columns))
	for i, name := range r.columns {
		pairs[i] = Pair{Name: name, Value: r.values[i]}
	}
	return pairs
}

// ToRow returns the record as display cells for tabular output.
func (r *Record) ToRow() []string {
	row := make([]string, len(r.values))
	for i, v := range r.values {
		row[i] = v.String()
	}
	return row
}

// ToCSVRecord returns the record as CSV cells. Null becomes the empty
// cell.
func (r *Record) ToCSVRecord() []string {
	row := make([]string, len(r.values))
	for i, v := range r.values {
		if v.IsNull() {
			row[i] = ""
			continue
		}
		row[i] = v.String()
	}
	return row
}

// MarshalJSON encodes the record as a JSON object with the columns in
// projection order and original-typed fields.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue maps every Value variant to exactly one JSON encoding.
// The switch is exhaustive over the eight kinds; a new kind must be
// handled here before it can render.
func marshalValue(v common.Value) ([]byte, error) {
	switch v.Kind() {
	case common.KindNull:
		return []byte("null"), nil
	case common.KindBool:
		return json.Marshal(v.Bool())
	case common.KindInt:
		return json.Marshal(v.Int())
	case common.KindFloat:
		return json.Marshal(v.Float())
	case common.KindString:
		return json.Marshal(v.Str())
	case common.KindDateTime:
		return json.Marshal(v.DateTime().Format(time.RFC3339Nano))
	case common.KindHost:
		return json.Marshal(v.Host())
	case common.KindHTTPRequest:
		return json.Marshal(v.HTTPRequest().String())
	default:
		return nil, fmt.Errorf("unhandled value kind %s", v.Kind())
	}
}
