package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt64
	KindFloat64
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is the closed sum type row columns and index expressions traffic in.
// It stands in for the teacher's untyped domain.Row values (ValueConverter's
// ToStorageValue/FromStorageValue target set) but closed, so index-key
// encoding can be exhaustive and order-preserving per kind.
type Value struct {
	kind Kind
	str  string
	i64  int64
	f64  float64
	b    bool
	t    time.Time
}

func Null() Value                 { return Value{kind: KindNull} }
func String(s string) Value       { return Value{kind: KindString, str: s} }
func Int64(i int64) Value         { return Value{kind: KindInt64, i64: i} }
func Float64(f float64) Value     { return Value{kind: KindFloat64, f64: f} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value      { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) StringVal() string  { return v.str }
func (v Value) Int64Val() int64    { return v.i64 }
func (v Value) Float64Val() float64 { return v.f64 }
func (v Value) BoolVal() bool       { return v.b }
func (v Value) TimeVal() time.Time  { return v.t }

// Equal reports whether two values are the same kind and payload, used by
// update_data's unchanged-index-value check (expr_I(old_row) == expr_I(new_row)).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt64:
		return v.i64 == other.i64
	case KindFloat64:
		return v.f64 == other.f64
	case KindBool:
		return v.b == other.b
	case KindTime:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "<null>"
	case KindString:
		return v.str
	case KindInt64:
		return fmt.Sprintf("%d", v.i64)
	case KindFloat64:
		return fmt.Sprintf("%g", v.f64)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// wireValue is the JSON-on-the-wire shape for Value, matching the teacher's
// encoding/json-everywhere codec choice (row_codec.go's RowCodec) rather than
// a custom binary row format.
type wireValue struct {
	Kind  string     `json:"kind"`
	Str   string     `json:"str,omitempty"`
	I64   int64      `json:"i64,omitempty"`
	F64   float64    `json:"f64,omitempty"`
	Bool  bool       `json:"bool,omitempty"`
	Time  *time.Time `json:"time,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.kind.String()}
	switch v.kind {
	case KindString:
		w.Str = v.str
	case KindInt64:
		w.I64 = v.i64
	case KindFloat64:
		w.F64 = v.f64
	case KindBool:
		w.Bool = v.b
	case KindTime:
		t := v.t
		w.Time = &t
	}
	return json.Marshal(w)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "", "null":
		*v = Null()
	case "string":
		*v = String(w.Str)
	case "int64":
		*v = Int64(w.I64)
	case "float64":
		*v = Float64(w.F64)
	case "bool":
		*v = Bool(w.Bool)
	case "time":
		if w.Time == nil {
			return fmt.Errorf("store: time value missing time field")
		}
		*v = Time(*w.Time)
	default:
		return fmt.Errorf("store: unknown value kind %q", w.Kind)
	}
	return nil
}

// Row holds a row's column values keyed by column name. It is a map, so it
// carries no column order of its own; the order lives only in the Schema's
// Columns. Matches the teacher's domain.Row = map[string]interface{}, narrowed to Value.
type Row map[string]Value

func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
