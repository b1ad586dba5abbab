package types

import (
	"fmt"
	"strconv"
)

// ValueType is the declared kind of a column or the runtime kind of a cell.
// The set is closed; the engine never stores anything outside it.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeFloat
	TypeText
	TypeBool
)

// String returns the SQL-facing name of the type.
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// ParseValueType maps a SQL type keyword to a ValueType.
func ParseValueType(s string) (ValueType, bool) {
	switch s {
	case "INT", "INTEGER":
		return TypeInt, true
	case "FLOAT", "REAL":
		return TypeFloat, true
	case "TEXT", "STRING":
		return TypeText, true
	case "BOOL", "BOOLEAN":
		return TypeBool, true
	default:
		return TypeNull, false
	}
}

// Value is a tagged scalar. The zero Value is the null marker.
type Value struct {
	kind ValueType
	i    int64
	f    float64
	s    string
	b    bool
}

// Null returns the null marker.
func Null() Value {
	return Value{kind: TypeNull}
}

// NewInt wraps an int64.
func NewInt(v int64) Value {
	return Value{kind: TypeInt, i: v}
}

// NewFloat wraps a float64.
func NewFloat(v float64) Value {
	return Value{kind: TypeFloat, f: v}
}

// NewText wraps a string.
func NewText(v string) Value {
	return Value{kind: TypeText, s: v}
}

// NewBool wraps a bool.
func NewBool(v bool) Value {
	return Value{kind: TypeBool, b: v}
}

// Type returns the runtime kind of the value.
func (v Value) Type() ValueType {
	return v.kind
}

// IsNull reports whether v is the null marker.
func (v Value) IsNull() bool {
	return v.kind == TypeNull
}

// Int returns the int64 payload. Valid only when Type() == TypeInt.
func (v Value) Int() int64 { return v.i }

// Float returns the float64 payload. Valid only when Type() == TypeFloat.
func (v Value) Float() float64 { return v.f }

// Text returns the string payload. Valid only when Type() == TypeText.
func (v Value) Text() string { return v.s }

// Bool returns the bool payload. Valid only when Type() == TypeBool.
func (v Value) Bool() bool { return v.b }

// Equal reports strict equality: same kind and same payload. Two null
// markers are Equal; uniqueness checks layer their own null handling on top.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case TypeNull:
		return true
	case TypeInt:
		return v.i == other.i
	case TypeFloat:
		return v.f == other.f
	case TypeText:
		return v.s == other.s
	case TypeBool:
		return v.b == other.b
	default:
		return false
	}
}

// String formats the value for display and logging. Text values are not
// quoted; use Literal for a round-trippable form.
func (v Value) String() string {
	switch v.kind {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeText:
		return v.s
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return fmt.Sprintf("Value(%d)", int(v.kind))
	}
}

// Literal formats the value as a SQL literal.
func (v Value) Literal() string {
	if v.kind == TypeText {
		return "'" + v.s + "'"
	}
	return v.String()
}
