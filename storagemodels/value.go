/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDecimal
	KindTimestamp
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindNull:      "null",
	KindString:    "string",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindDecimal:   "decimal",
	KindTimestamp: "timestamp",
	KindObject:    "object",
	KindArray:     "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamically typed field value. The set of implementations is
// closed: Null, String, Int, Float, Bool, Decimal, Timestamp, Object, Array.
type Value interface {
	// Kind reports the variant.
	Kind() Kind
	// String returns the textual form used by loose comparisons.
	String() string
	// Interface returns the plain Go form, suitable for JSON encoding.
	Interface() any

	sealed()
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }
func (Null) Interface() any { return nil }
func (Null) sealed()        {}

// String is a text value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }
func (s String) Interface() any { return string(s) }
func (String) sealed()          {}

// Int is a 64-bit integer value.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Interface() any { return int64(i) }
func (Int) sealed()          {}

// Float is a binary floating point value. Its textual form always carries a
// fraction, so Float(1) renders as "1.0". Magnitudes below 1e-3 or from 1e7
// up use exponent notation.
type Float float64

func (Float) Kind() Kind { return KindFloat }

func (f Float) String() string {
	v := float64(f)
	if a := math.Abs(v); a != 0 && (a < 1e-3 || a >= 1e7) || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'E', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (f Float) Interface() any { return float64(f) }
func (Float) sealed()          {}

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Interface() any { return bool(b) }
func (Bool) sealed()          {}

// Decimal is an arbitrary precision decimal value. The wrapped decimal is
// never mutated after construction.
type Decimal struct {
	d *apd.Decimal
}

// NewDecimal copies d into a Decimal value.
func NewDecimal(d *apd.Decimal) Decimal {
	if d == nil {
		return Decimal{d: new(apd.Decimal)}
	}
	return Decimal{d: new(apd.Decimal).Set(d)}
}

// ParseDecimal parses a decimal literal such as "19.90" or "1.5E+3".
func ParseDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return Decimal{d: d}, nil
}

func (Decimal) Kind() Kind { return KindDecimal }

func (d Decimal) String() string {
	if d.d == nil {
		return "0"
	}
	return d.d.String()
}

// Interface returns a json.Number so decimals encode as JSON numbers.
func (d Decimal) Interface() any { return json.Number(d.String()) }
func (Decimal) sealed()          {}

// Cmp compares two decimals numerically.
func (d Decimal) Cmp(other Decimal) int {
	a, b := d.d, other.d
	if a == nil {
		a = new(apd.Decimal)
	}
	if b == nil {
		b = new(apd.Decimal)
	}
	return a.Cmp(b)
}

// Timestamp is a point in time rendered as an RFC3339 date-time.
type Timestamp strfmt.DateTime

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp(strfmt.DateTime(t)) }

func (Timestamp) Kind() Kind       { return KindTimestamp }
func (t Timestamp) String() string { return strfmt.DateTime(t).String() }
func (t Timestamp) Interface() any { return strfmt.DateTime(t) }
func (Timestamp) sealed()          {}

// Time returns the wrapped time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// Object is a nested structure of named values.
type Object map[string]Value

func (Object) Kind() Kind       { return KindObject }
func (o Object) String() string { return compactJSON(o.Interface()) }
func (Object) sealed()          {}

func (o Object) Interface() any {
	m := make(map[string]any, len(o))
	for k, v := range o {
		m[k] = interfaceOf(v)
	}
	return m
}

// Array is an ordered list of values.
type Array []Value

func (Array) Kind() Kind       { return KindArray }
func (a Array) String() string { return compactJSON(a.Interface()) }
func (Array) sealed()          {}

func (a Array) Interface() any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = interfaceOf(v)
	}
	return out
}

func interfaceOf(v Value) any {
	if v == nil {
		return nil
	}
	return v.Interface()
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// FromAny converts a decoded JSON value or a plain Go value into a Value.
// Unknown types fall back to their fmt text as a String.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(x)
	case uint16:
		return Int(x)
	case uint32:
		return Int(x)
	case uint64:
		return fromUint(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case json.Number:
		return fromNumber(string(x))
	case *apd.Decimal:
		return NewDecimal(x)
	case time.Time:
		return NewTimestamp(x)
	case strfmt.DateTime:
		return Timestamp(x)
	case *strfmt.DateTime:
		if x == nil {
			return Null{}
		}
		return Timestamp(*x)
	case uuid.UUID:
		return String(x.String())
	case []byte:
		return String(base64.StdEncoding.EncodeToString(x))
	case Record:
		return Object(x.Clone())
	case map[string]Value:
		return Object(Record(x).Clone())
	case map[string]any:
		obj := make(Object, len(x))
		for k, fv := range x {
			obj[k] = FromAny(fv)
		}
		return obj
	case []any:
		arr := make(Array, len(x))
		for i, ev := range x {
			arr[i] = FromAny(ev)
		}
		return arr
	case []string:
		arr := make(Array, len(x))
		for i, s := range x {
			arr[i] = String(s)
		}
		return arr
	case []map[string]any:
		arr := make(Array, len(x))
		for i, m := range x {
			arr[i] = FromAny(m)
		}
		return arr
	default:
		return String(fmt.Sprint(v))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return fromNumber(strconv.FormatUint(u, 10))
	}
	return Int(u)
}

// fromNumber keeps the literal exact: integers in the int64 range become Int
// and every other number a Decimal that renders as written, so 1.0 stays
// "1.0".
func fromNumber(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if d, err := ParseDecimal(s); err == nil {
		return d
	}
	return String(s)
}

// IsNull reports whether v is absent or Null.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// Equal reports typed value equality: both values must hold the same
// variant and the same content. Decimals compare numerically and
// timestamps by instant.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Decimal:
		return x.Cmp(b.(Decimal)) == 0
	case Timestamp:
		return x.Time().Equal(b.(Timestamp).Time())
	case Object:
		y := b.(Object)
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// LooseEqual compares the textual forms of two values case-insensitively,
// whatever their variants, so Int(1) matches String("1") and a decoded 1.0
// matches String("1.0"), while Int(1) and 1.0 differ. Case folding is per
// rune: "ß" does not match "SS". A null on either side only matches another
// null.
func LooseEqual(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	return strings.EqualFold(a.String(), b.String())
}

// CloneValue deep-copies nested objects and arrays. Scalar variants are
// immutable and returned as is.
func CloneValue(v Value) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Object:
		return Object(Record(x).Clone())
	case Array:
		out := make(Array, len(x))
		for i, ev := range x {
			out[i] = CloneValue(ev)
		}
		return out
	default:
		return v
	}
}
