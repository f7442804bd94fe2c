// Package constraint extracts codec-independent constraints from type descriptors.
//
// Extraction captures the declared shape only. Nothing here enforces a
// constraint against a value; that policy belongs to the codecs that need it.
package constraint

import "fmt"

// BoundKind classifies a range endpoint.
type BoundKind uint8

const (
	// BoundValue is a literal endpoint.
	BoundValue BoundKind = iota
	// BoundMin is the MIN keyword.
	BoundMin
	// BoundMax is the MAX keyword.
	BoundMax
)

// Bound is one endpoint of a Range.
//
// Value holds an int64, float64, bool or string literal when Kind is BoundValue.
type Bound struct {
	Value any
	Kind  BoundKind
}

// String returns the ASN.1 form of the bound.
func (b Bound) String() string {
	switch b.Kind {
	case BoundMin:
		return "MIN"
	case BoundMax:
		return "MAX"
	default:
		return fmt.Sprint(b.Value)
	}
}

// Range is an inclusive range, or a single value when Lower equals Upper.
type Range struct {
	Lower Bound
	Upper Bound
	// Single is set when the range was declared as one value.
	Single bool
}

// String returns the ASN.1 form of the range.
func (r Range) String() string {
	if r.Single {
		return r.Lower.String()
	}
	return r.Lower.String() + ".." + r.Upper.String()
}

// CharRange is an inclusive range of permitted characters.
type CharRange struct {
	First rune
	Last  rune
}

// Presence is the presence constraint of a WITH COMPONENTS entry.
type Presence uint8

const (
	// PresenceUnspecified means the entry only constrains the value.
	PresenceUnspecified Presence = iota
	// PresencePresent is PRESENT.
	PresencePresent
	// PresenceAbsent is ABSENT.
	PresenceAbsent
	// PresenceOptional is OPTIONAL.
	PresenceOptional
)

// String returns the ASN.1 keyword.
func (p Presence) String() string {
	switch p {
	case PresencePresent:
		return "PRESENT"
	case PresenceAbsent:
		return "ABSENT"
	case PresenceOptional:
		return "OPTIONAL"
	default:
		return ""
	}
}

// Component is one WITH COMPONENTS entry.
type Component struct {
	// Value is the nested constraint in its normalized raw form, or nil.
	Value    any
	Name     string
	Presence Presence
}

// NamedBit names one BIT STRING position.
type NamedBit struct {
	Name     string
	Position int
}

// Set holds every constraint declared on one type.
type Set struct {
	Size              []Range
	Value             []Range
	Alphabet          []CharRange
	Components        []Component
	NamedBits         []NamedBit
	SizeExtensible    bool
	ValueExtensible   bool
	ComponentsPartial bool
}

// IsZero reports whether no constraint was declared.
func (s Set) IsZero() bool {
	return len(s.Size) == 0 && len(s.Value) == 0 && len(s.Alphabet) == 0 &&
		len(s.Components) == 0 && len(s.NamedBits) == 0 &&
		!s.SizeExtensible && !s.ValueExtensible && !s.ComponentsPartial
}
