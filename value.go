package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the scalar type a Value holds.
type Kind int

const (
	// KindInt is a whole number, e.g. a dimension in millimetres.
	KindInt Kind = iota
	// KindFloat is a fractional number, e.g. a layer height.
	KindFloat
	// KindString is any value that does not parse as a number,
	// e.g. "Grid layout 2" or "Yes".
	KindString
)

// Value is one parameter value attached to a model. Values are small
// immutable scalars; copy them freely.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// IntValue returns a Value holding a whole number.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a Value holding a fractional number.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue returns a Value holding free text.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ParseValue converts raw text into a Value. Text containing a dot is
// read as a float, otherwise an integer parse is attempted; anything
// that fails to parse stays a string.
func ParseValue(raw string) Value {
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return FloatValue(f)
		}
		return StringValue(raw)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	}
	return StringValue(raw)
}

// ValueOf converts a dynamically typed scalar into a Value. Strings go
// through ParseValue; JSON numbers arrive as float64 and collapse to
// KindInt when they are whole. Booleans render as "Yes"/"No".
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case string:
		return ParseValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float64:
		if isWhole(t) {
			return IntValue(int64(t)), nil
		}
		return FloatValue(t), nil
	case float32:
		return ValueOf(float64(t))
	case bool:
		if t {
			return StringValue("Yes"), nil
		}
		return StringValue("No"), nil
	case nil:
		return Value{}, fmt.Errorf("%w: null value", ErrBadValue)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrBadValue, v)
	}
}

func isWhole(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		f >= math.MinInt64 && f <= math.MaxInt64
}

// Kind reports the scalar type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether the value holds a number of either kind.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Int returns the value as an integer, truncating floats.
func (v Value) Int() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the value as a float; strings yield 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	}
	return 0
}

// Native returns the value as its underlying Go type (int64, float64
// or string), suitable as an expression environment entry.
func (v Value) Native() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	}
	return v.s
}

// String renders the value without a unit: integers exactly, floats in
// shortest form, strings verbatim.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return v.s
}

// Format renders the value for the catalog: integers exactly, floats
// with two significant digits, strings verbatim. A non-empty unit is
// appended after a space.
func (v Value) Format(unit string) string {
	var text string
	switch v.kind {
	case KindInt:
		text = strconv.FormatInt(v.i, 10)
	case KindFloat:
		text = strconv.FormatFloat(v.f, 'g', 2, 64)
	default:
		text = v.s
	}
	if unit == "" {
		return text
	}
	return text + " " + unit
}

// Key returns the set-membership identity of the value. Numeric values
// with equal magnitude share a key regardless of kind, so 1 and 1.0
// count as one member.
func (v Value) Key() string {
	if v.IsNumeric() {
		return "n:" + strconv.FormatFloat(v.Float(), 'g', -1, 64)
	}
	return "s:" + v.s
}

// Compare orders two values: numbers by magnitude, strings lexically,
// and numbers before strings. It returns -1, 0 or +1.
func (v Value) Compare(o Value) int {
	vn, on := v.IsNumeric(), o.IsNumeric()
	switch {
	case vn && on:
		a, b := v.Float(), o.Float()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case vn:
		return -1
	case on:
		return 1
	}
	return strings.Compare(v.s, o.s)
}

// Equal reports whether two values are the same set member.
func (v Value) Equal(o Value) bool { return v.Key() == o.Key() }
