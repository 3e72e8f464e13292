package dataset

import (
	"strconv"
	"strings"
)

// Kind is the scalar type of a Value.
type Kind int

const (
	// KindNull is an absent value.
	KindNull Kind = iota
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindText is a UTF-8 string.
	KindText
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single typed cell.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	// Raw is the cell exactly as it was read, when the value came from
	// delimited text. Writers emit it instead of the typed rendering.
	Raw string
}

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an integer value.
func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }

// Float returns a float value.
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// Text returns a text value.
func Text(v string) Value { return Value{Kind: KindText, Text: v} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value the way it would appear in a CSV cell.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// Cell renders the value for writing back to delimited text: the source
// cell when there is one, String otherwise.
func (v Value) Cell() string {
	if v.Raw != "" {
		return v.Raw
	}
	return v.String()
}

// Any returns the value as a driver-friendly Go value (nil for null).
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Text
	default:
		return nil
	}
}

// Parse converts a raw cell into the narrowest Value that represents it.
// Cells equal to nullString (after trimming) become null.
func Parse(raw, nullString string) Value {
	s := strings.TrimSpace(raw)
	if s == nullString || s == "" {
		return Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return Text(s)
}

// ParseColumn builds a typed column from raw cells.
// The column is integer if every non-null cell is an integer that fits in
// 64 bits without a leading zero, float if every non-null cell is numeric,
// and text otherwise, so codes like "00501" and 20-digit ids stay text.
// Every value keeps its source cell in Raw. Text values are not trimmed.
func ParseColumn(name string, raw []string, nullString string) Column {
	kind := KindNull
	for _, cell := range raw {
		s := strings.TrimSpace(cell)
		if s == "" || s == nullString {
			continue
		}
		v := Parse(s, nullString)
		if v.Kind == KindInt && hasLeadingZero(s) {
			v.Kind = KindText
		}
		if v.Kind == KindFloat && isInteger(s) {
			// overflowed int64
			v.Kind = KindText
		}
		switch {
		case kind == KindNull:
			kind = v.Kind
		case kind == v.Kind:
		case v.Kind == KindText || kind == KindText:
			kind = KindText
		default:
			kind = KindFloat
		}
		if kind == KindText {
			break
		}
	}

	values := make([]Value, len(raw))
	for i, cell := range raw {
		s := strings.TrimSpace(cell)
		var v Value
		switch {
		case s == "" || s == nullString:
			v = Null()
		case kind == KindInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			v = Int(n)
		case kind == KindFloat:
			f, _ := strconv.ParseFloat(s, 64)
			v = Float(f)
		default:
			v = Text(cell)
		}
		v.Raw = cell
		values[i] = v
	}
	return Column{Name: name, Values: values}
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	return len(s) > 1 && s[0] == '0'
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
