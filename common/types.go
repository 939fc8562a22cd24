// Package common holds the typed value model shared by every stage of
// the query pipeline: the Value union, tuples, runtime variables and
// the opaque data source descriptor.
package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDateTime
	KindHost
	KindHTTPRequest
)

var kindNames = map[Kind]string{
	KindNull:        "Null",
	KindBool:        "Boolean",
	KindInt:         "Int",
	KindFloat:       "Float",
	KindString:      "String",
	KindDateTime:    "DateTime",
	KindHost:        "Host",
	KindHTTPRequest: "HttpRequest",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HTTPRequest is a decomposed HTTP request line.
type HTTPRequest struct {
	Method   string
	Path     string
	Protocol string
}

func (r HTTPRequest) String() string {
	return r.Method + " " + r.Path + " " + r.Protocol
}

// Value is a closed tagged union over every type a log column can
// produce. Values are immutable once constructed; the zero Value is
// Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string // String and Host payloads
	t    time.Time
	r    HTTPRequest
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NewInt creates an integer value.
func NewInt(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// NewFloat creates a float value. NaN is canonicalized to zero so
// every Float compares and hashes totally.
func NewFloat(f float64) Value {
	if math.IsNaN(f) {
		f = 0
	}
	return Value{kind: KindFloat, f: f}
}

// NewString creates a string value.
func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

// NewDateTime creates a timestamp value.
func NewDateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t}
}

// NewHost creates a host value from a host or host:port form.
func NewHost(h string) Value {
	return Value{kind: KindHost, s: h}
}

// NewHTTPRequest creates a request-line value.
func NewHTTPRequest(r HTTPRequest) Value {
	return Value{kind: KindHTTPRequest, r: r}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// DateTime returns the timestamp payload.
func (v Value) DateTime() time.Time { return v.t }

// Host returns the host payload.
func (v Value) Host() string { return v.s }

// HTTPRequest returns the request-line payload.
func (v Value) HTTPRequest() HTTPRequest { return v.r }

// Equal reports structural equality: same kind, same payload. Query
// comparison semantics for Null are handled by the filter operator,
// not here.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString, KindHost:
		return v.s == o.s
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindHTTPRequest:
		return v.r == o.r
	default:
		return false
	}
}

// Compare orders two values of the same kind. ok is false when the
// kinds differ or either side is Null.
func (v Value) Compare(o Value) (int, bool) {
	if v.kind != o.kind || v.kind == KindNull {
		return 0, false
	}
	switch v.kind {
	case KindBool:
		return boolCmp(v.b, o.b), true
	case KindInt:
		return int64Cmp(v.i, o.i), true
	case KindFloat:
		return floatCmp(v.f, o.f), true
	case KindString, KindHost:
		return strings.Compare(v.s, o.s), true
	case KindDateTime:
		switch {
		case v.t.Before(o.t):
			return -1, true
		case v.t.After(o.t):
			return 1, true
		}
		return 0, true
	case KindHTTPRequest:
		return strings.Compare(v.r.String(), o.r.String()), true
	default:
		return 0, false
	}
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

func int64Cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String returns the display form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString, KindHost:
		return v.s
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	case KindHTTPRequest:
		return v.r.String()
	default:
		return "?"
	}
}

// Tuple is one decoded log line: one value per schema column, in
// schema order.
type Tuple = []Value

// VariableName names a runtime binding created during physical
// planning.
type VariableName = string

// Variables maps variable names to the values bound at plan time.
type Variables = map[VariableName]Value

// EmptyVariables returns a fresh empty binding set.
func EmptyVariables() Variables {
	return Variables{}
}
