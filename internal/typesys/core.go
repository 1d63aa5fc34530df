// Package typesys implements the value-typed type descriptor (spec.md §4.2)
// and the wrapper-kind name codec it carries. It has no notion of ownership
// semantics itself — that belongs to internal/memory, which imports
// WrapperKind from here and owns groups, the transformation matrix, and
// locking policies.
package typesys

import "strings"

// TypeInfo is a value-typed type descriptor. It carries no identity:
// equality is structural on (Name, IsReference, GenericArgs).
type TypeInfo struct {
	Name           string
	GenericArgs    []TypeInfo
	IsReference    bool
	IsGenericParam bool
}

var signedIntegers = map[string]bool{
	"s8": true, "s16": true, "s32": true, "s64": true, "s128": true,
}

var unsignedIntegers = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
}

var addressSized = map[string]bool{
	"saddr": true, "uaddr": true,
}

// IsInteger reports whether the descriptor names a signed, unsigned, or
// address-sized integer primitive.
func (t TypeInfo) IsInteger() bool {
	return signedIntegers[t.Name] || unsignedIntegers[t.Name] || addressSized[t.Name]
}

// IsFloatingPoint reports whether the descriptor names an "f" (binary) or
// "d" (decimal) floating-point family primitive.
func (t TypeInfo) IsFloatingPoint() bool {
	return strings.HasPrefix(t.Name, "f") && isDigitsAfter(t.Name, 1) ||
		strings.HasPrefix(t.Name, "d") && isDigitsAfter(t.Name, 1)
}

func isDigitsAfter(name string, from int) bool {
	if from >= len(name) {
		return false
	}
	for _, r := range name[from:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsNumeric reports whether the descriptor is an integer or floating-point
// primitive.
func (t TypeInfo) IsNumeric() bool {
	return t.IsInteger() || t.IsFloatingPoint()
}

// IsBoolean reports whether the descriptor names the boolean primitive.
func (t TypeInfo) IsBoolean() bool {
	return t.Name == "bool"
}

// IsVoid reports whether the descriptor names the absence-of-value
// primitive.
func (t TypeInfo) IsVoid() bool {
	return t.Name == "none"
}

// FullName renders "name[arg1,arg2,...]" when generic arguments are
// present, or just "name" otherwise.
func (t TypeInfo) FullName() string {
	if len(t.GenericArgs) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.GenericArgs))
	for i, a := range t.GenericArgs {
		parts[i] = a.FullName()
	}
	return t.Name + "[" + strings.Join(parts, ",") + "]"
}

// String implements fmt.Stringer for diagnostic messages.
func (t TypeInfo) String() string {
	s := t.FullName()
	if t.IsReference {
		s = "ref " + s
	}
	return s
}

// Equals compares two descriptors structurally.
func (t TypeInfo) Equals(other TypeInfo) bool {
	if t.Name != other.Name || t.IsReference != other.IsReference {
		return false
	}
	if len(t.GenericArgs) != len(other.GenericArgs) {
		return false
	}
	for i := range t.GenericArgs {
		if !t.GenericArgs[i].Equals(other.GenericArgs[i]) {
			return false
		}
	}
	return true
}

// Unknown is the substitute type used after a type error so that later
// checks in the same traversal remain meaningful (spec.md §7).
var Unknown = TypeInfo{Name: "unknown"}

// IsUnknown reports whether t is the Unknown placeholder.
func (t TypeInfo) IsUnknown() bool {
	return t.Name == "unknown"
}
