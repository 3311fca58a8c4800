// Package value implements the tagged Value union shared by the
// interpreter, VM, and runtime (spec.md §4.1). Keeping it as a single
// module consumed by both evaluation backends is what makes their
// agreement (spec.md §8 invariant 1) possible to state at all.
package value

import "fmt"

// Type discriminates the payload carried by a Value.
type Type int

const (
	Number Type = iota
	Boolean
	String
	Error
)

func (t Type) String() string {
	switch t {
	case Number:
		return "Number"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Value is an immutable tagged union. Only one of Num/Bool/Str is
// meaningful, selected by Type; Str also holds the message for Error.
type Value struct {
	Type Type
	Num  float64
	Bool bool
	Str  string
}

func NewNumber(n float64) Value  { return Value{Type: Number, Num: n} }
func NewBoolean(b bool) Value    { return Value{Type: Boolean, Bool: b} }
func NewString(s string) Value   { return Value{Type: String, Str: s} }
func NewError(msg string) Value  { return Value{Type: Error, Str: msg} }

// IsTruthy implements spec.md §4.1: Number != 0, Boolean as-is, non-empty
// String, Error is always false.
func (v Value) IsTruthy() bool {
	switch v.Type {
	case Number:
		return v.Num != 0
	case Boolean:
		return v.Bool
	case String:
		return v.Str != ""
	case Error:
		return false
	default:
		return false
	}
}

// AsNumber implements spec.md §4.1's numeric coercion: Number verbatim,
// Boolean as 1.0/0.0, String/Error as 0.0.
func (v Value) AsNumber() float64 {
	switch v.Type {
	case Number:
		return v.Num
	case Boolean:
		if v.Bool {
			return 1.0
		}
		return 0.0
	default:
		return 0.0
	}
}

// IsError reports whether v is an Error value.
func (v Value) IsError() bool { return v.Type == Error }

// String is the full, user-facing representation, grounded on
// original_source/src/value.h's print_value.
func (v Value) String() string {
	switch v.Type {
	case Number:
		return fmt.Sprintf("%g", v.Num)
	case Boolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case String:
		return fmt.Sprintf("%q", v.Str)
	case Error:
		return fmt.Sprintf("#ERROR: %s", v.Str)
	default:
		return "UNKNOWN_VALUE"
	}
}

// Compact is the abbreviated inline form used by VM/interpreter tracing,
// grounded on original_source/src/value.h's print_value_inline.
func (v Value) Compact() string {
	switch v.Type {
	case Number:
		return fmt.Sprintf("%g", v.Num)
	case Boolean:
		if v.Bool {
			return "T"
		}
		return "F"
	case String:
		s := v.Str
		if len(s) > 10 {
			s = s[:10] + "..."
		}
		return fmt.Sprintf("%q", s)
	case Error:
		return "#ERR"
	default:
		return "?"
	}
}

// Equal compares by tag and payload (spec.md §3: "Equality by tag+payload").
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case Number:
		return v.Num == o.Num
	case Boolean:
		return v.Bool == o.Bool
	case String, Error:
		return v.Str == o.Str
	default:
		return false
	}
}
