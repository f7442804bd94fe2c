// Package descriptor defines the parsed, language-neutral form of ASN.1 modules
// consumed by the compiler.
//
// A Specification maps module names to modules. Each module holds its type
// definitions keyed by name, its value assignments and the names it imports from
// other modules. Descriptors are produced by an external grammar parser and are
// treated as read-only input.
package descriptor

import (
	"encoding/json"
	"maps"
	"slices"
)

// Specification maps module names to parsed modules.
type Specification map[string]*Module

// Module is one parsed ASN.1 module.
type Module struct {
	Types                map[string]*Type            `json:"types"`
	Values               map[string]*ValueAssignment `json:"values"`
	Imports              map[string][]string         `json:"imports"`
	ObjectClasses        map[string]json.RawMessage  `json:"object-classes"`
	ObjectSets           map[string]json.RawMessage  `json:"object-sets"`
	ExtensibilityImplied bool                        `json:"extensibility-implied"`
}

// Type describes one type definition or one member of a constructed type.
//
// Type holds either a builtin keyword ("SEQUENCE", "INTEGER", "BIT STRING", ...)
// or the name of a user-defined type. Name, Optional and Default are only set
// for members.
type Type struct {
	Type           string      `json:"type"`
	Name           string      `json:"name,omitempty"`
	Optional       bool        `json:"optional,omitempty"`
	Default        any         `json:"default,omitempty"`
	Members        []Member    `json:"members,omitempty"`
	Element        *Type       `json:"element,omitempty"`
	Values         []EnumValue `json:"values,omitempty"`
	Size           []any       `json:"size,omitempty"`
	RestrictedTo   []any       `json:"restricted-to,omitempty"`
	From           []any       `json:"from,omitempty"`
	WithComponents []any       `json:"with-components,omitempty"`
	NamedBits      []NamedBit  `json:"named-bits,omitempty"`
	Tag            *Tag        `json:"tag,omitempty"`
}

// HasDefault reports whether the member declares a DEFAULT value.
func (t *Type) HasDefault() bool {
	return t != nil && t.Default != nil
}

// Tag is an explicit tag on a type or member.
type Tag struct {
	Class  string `json:"class,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Number int    `json:"number"`
}

// ValueAssignment is a module-level value definition such as "foo INTEGER ::= 1".
type ValueAssignment struct {
	Type
	Value any `json:"value"`
}

// TypeNames returns the module's type names in ascending order.
func (m *Module) TypeNames() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.Types))
}

// ValueNames returns the module's value names in ascending order.
func (m *Module) ValueNames() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.Values))
}

// ModuleNames returns the specification's module names in ascending order.
func (s Specification) ModuleNames() []string {
	return slices.Sorted(maps.Keys(s))
}
