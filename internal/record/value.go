package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the semantic type of a field value.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeReal     FieldType = "real"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeOther    FieldType = "other"
)

// ParseFieldType maps a type name to a FieldType.
// Common aliases (int, float, bool, text, ...) are accepted.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "real", "float", "double":
		return TypeReal, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "datetime", "timestamp":
		return TypeDatetime, nil
	case "other", "":
		return TypeOther, nil
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// Value is a closed tagged variant holding one typed field value.
// The predicate builder matches exhaustively on the type tag instead of
// inspecting runtime types.
type Value struct {
	typ FieldType
	s   string
	i   int64
	f   float64
	b   bool
	t   time.Time
	o   any
}

// String creates a string Value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Integer creates an integer Value.
func Integer(i int64) Value { return Value{typ: TypeInteger, i: i} }

// Real creates a floating-point Value.
func Real(f float64) Value { return Value{typ: TypeReal, f: f} }

// Bool creates a boolean Value.
func Bool(b bool) Value { return Value{typ: TypeBoolean, b: b} }

// Datetime creates a timestamp Value.
func Datetime(t time.Time) Value { return Value{typ: TypeDatetime, t: t} }

// Other creates a Value for data outside the closed type set.
func Other(v any) Value { return Value{typ: TypeOther, o: v} }

// Zero returns the semantic zero value for a field type: empty string, 0,
// 0.0, false, the zero time, or nil.
func Zero(t FieldType) Value {
	return Value{typ: t}
}

// Type returns the value's type tag.
func (v Value) Type() FieldType { return v.typ }

// IsZero reports whether the value equals its type's zero value.
func (v Value) IsZero() bool {
	switch v.typ {
	case TypeString:
		return v.s == ""
	case TypeInteger:
		return v.i == 0
	case TypeReal:
		return v.f == 0
	case TypeBoolean:
		return !v.b
	case TypeDatetime:
		return v.t.IsZero()
	default:
		return v.o == nil
	}
}

// AsString returns the value as a string, if it is one.
func (v Value) AsString() (string, bool) {
	if v.typ == TypeString {
		return v.s, true
	}
	return "", false
}

// AsInt returns the value as an integer, if it is one.
func (v Value) AsInt() (int64, bool) {
	if v.typ == TypeInteger {
		return v.i, true
	}
	return 0, false
}

// AsFloat returns the value as a float, if it is one.
func (v Value) AsFloat() (float64, bool) {
	if v.typ == TypeReal {
		return v.f, true
	}
	return 0, false
}

// AsBool returns the value as a boolean, if it is one.
func (v Value) AsBool() (bool, bool) {
	if v.typ == TypeBoolean {
		return v.b, true
	}
	return false, false
}

// AsTime returns the value as a timestamp, if it is one.
func (v Value) AsTime() (time.Time, bool) {
	if v.typ == TypeDatetime {
		return v.t, true
	}
	return time.Time{}, false
}

// Raw returns the underlying value.
func (v Value) Raw() any {
	switch v.typ {
	case TypeString:
		return v.s
	case TypeInteger:
		return v.i
	case TypeReal:
		return v.f
	case TypeBoolean:
		return v.b
	case TypeDatetime:
		return v.t
	default:
		return v.o
	}
}

// Arg returns the value stringified for use as a SQL argument. Booleans map
// to "1"/"0" and timestamps to SQLite's datetime text format.
func (v Value) Arg() string {
	switch v.typ {
	case TypeString:
		return v.s
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeReal:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeBoolean:
		if v.b {
			return "1"
		}
		return "0"
	case TypeDatetime:
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v.o)
	}
}

// ParseValue parses a textual value into a Value of the given type.
func ParseValue(t FieldType, s string) (Value, error) {
	switch t {
	case TypeString:
		return String(s), nil
	case TypeInteger:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer %q: %w", s, err)
		}
		return Integer(i), nil
	case TypeReal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid real %q: %w", s, err)
		}
		return Real(f), nil
	case TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("invalid boolean %q: %w", s, err)
		}
		return Bool(b), nil
	case TypeDatetime:
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
			if ts, err := time.Parse(layout, s); err == nil {
				return Datetime(ts), nil
			}
		}
		return Value{}, fmt.Errorf("invalid datetime %q", s)
	default:
		return Other(s), nil
	}
}
