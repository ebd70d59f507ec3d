package config

import "fmt"

// ValueKind discriminates the closed Value union
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindEnum
)

// String returns the kind name used in error messages and schema files
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is one configuration value: a string, a boolean, or an enum tag.
// The zero Value is the empty string.
type Value struct {
	kind ValueKind
	str  string
	b    bool
}

// StringValue creates a string Value
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// BoolValue creates a boolean Value
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// EnumValue creates an enum Value carrying the given tag
func EnumValue(tag string) Value {
	return Value{kind: KindEnum, str: tag}
}

// Kind returns the discriminator of the union
func (v Value) Kind() ValueKind {
	return v.kind
}

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Text returns the rendered text form of the value, the form substitution
// tags emit: the string itself, the enum tag, or "true"/"false"
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindEnum:
		return v.str
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Truthy reports whether the value counts as true in a bare condition:
// booleans by their value, strings and enum tags by being non-empty
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString, KindEnum:
		return v.str != ""
	default:
		return false
	}
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindBool {
		return v.b == other.b
	}
	return v.str == other.str
}
