// Package typenode defines the compiled, immutable type tree shared by all codecs.
//
// Every node embeds Info with the fields common to all constructs and carries
// its own shape-specific payload. Nodes are never mutated after construction and
// may be read from any number of goroutines.
package typenode

import (
	"slices"
	"strings"

	"github.com/jacoelho/asn1/descriptor"
)

// Node is one compiled ASN.1 construct.
type Node interface {
	Kind() Kind
	Meta() Info
	String() string
	node()
}

// Info holds the fields shared by every node.
type Info struct {
	Default    any
	Tag        *descriptor.Tag
	Name       string
	HasDefault bool
	Optional   bool
	// Addition is set for members declared after an extension marker.
	Addition bool
	// AdditionGroup numbers the extension addition group holding the member,
	// starting at 1, or is 0 outside groups.
	AdditionGroup int
}

// Meta returns the shared fields.
func (i Info) Meta() Info { return i }

// Primitive is a leaf construct with no children.
type Primitive struct {
	Info
	kind Kind
}

// NewPrimitive returns a leaf node of kind k.
func NewPrimitive(info Info, k Kind) *Primitive {
	return &Primitive{Info: info, kind: k}
}

func (p *Primitive) Kind() Kind { return p.kind }

func (p *Primitive) String() string { return p.kind.Label() + "(" + p.Name + ")" }

func (*Primitive) node() {}

// Sequence is a SEQUENCE with ordered members.
type Sequence struct {
	Info
	members    []Node
	Extensible bool
}

// NewSequence returns a SEQUENCE node.
func NewSequence(info Info, members []Node, extensible bool) *Sequence {
	return &Sequence{Info: info, members: slices.Clone(members), Extensible: extensible}
}

func (*Sequence) Kind() Kind { return KindSequence }

// Members returns the members in declaration order.
func (s *Sequence) Members() []Node { return slices.Clone(s.members) }

// Len returns the number of members.
func (s *Sequence) Len() int { return len(s.members) }

// Member returns the member at index i.
func (s *Sequence) Member(i int) Node { return s.members[i] }

func (s *Sequence) String() string { return formatMembers(KindSequence, s.Name, s.members) }

func (*Sequence) node() {}

// Set is a SET with members in declaration order.
type Set struct {
	Info
	members    []Node
	Extensible bool
}

// NewSet returns a SET node.
func NewSet(info Info, members []Node, extensible bool) *Set {
	return &Set{Info: info, members: slices.Clone(members), Extensible: extensible}
}

func (*Set) Kind() Kind { return KindSet }

// Members returns the members in declaration order.
func (s *Set) Members() []Node { return slices.Clone(s.members) }

func (s *Set) String() string { return formatMembers(KindSet, s.Name, s.members) }

func (*Set) node() {}

// Choice is a CHOICE between named alternatives.
type Choice struct {
	Info
	byName     map[string]Node
	members    []Node
	names      []string
	Extensible bool
}

// NewChoice returns a CHOICE node.
func NewChoice(info Info, members []Node, extensible bool) *Choice {
	c := &Choice{
		Info:       info,
		members:    slices.Clone(members),
		byName:     make(map[string]Node, len(members)),
		Extensible: extensible,
	}
	for _, m := range c.members {
		c.byName[m.Meta().Name] = m
	}
	c.names = make([]string, 0, len(c.byName))
	for name := range c.byName {
		c.names = append(c.names, name)
	}
	slices.Sort(c.names)
	return c
}

func (*Choice) Kind() Kind { return KindChoice }

// Members returns the alternatives in declaration order.
func (c *Choice) Members() []Node { return slices.Clone(c.members) }

// Alternative returns the alternative called name.
func (c *Choice) Alternative(name string) (Node, bool) {
	n, ok := c.byName[name]
	return n, ok
}

// Names returns the alternative names in ascending order.
func (c *Choice) Names() []string { return slices.Clone(c.names) }

func (c *Choice) String() string { return formatMembers(KindChoice, c.Name, c.members) }

func (*Choice) node() {}

// SequenceOf is a SEQUENCE OF one element type.
type SequenceOf struct {
	Info
	Element Node
}

// NewSequenceOf returns a SEQUENCE OF node.
func NewSequenceOf(info Info, element Node) *SequenceOf {
	return &SequenceOf{Info: info, Element: element}
}

func (*SequenceOf) Kind() Kind { return KindSequenceOf }

func (s *SequenceOf) String() string { return formatElement(KindSequenceOf, s.Name, s.Element) }

func (*SequenceOf) node() {}

// SetOf is a SET OF one element type.
type SetOf struct {
	Info
	Element Node
}

// NewSetOf returns a SET OF node.
func NewSetOf(info Info, element Node) *SetOf {
	return &SetOf{Info: info, Element: element}
}

func (*SetOf) Kind() Kind { return KindSetOf }

func (s *SetOf) String() string { return formatElement(KindSetOf, s.Name, s.Element) }

func (*SetOf) node() {}

// Enumerated is an ENUMERATED type.
type Enumerated struct {
	Info
	values     map[string]int64
	names      []string
	Extensible bool
}

// NewEnumerated returns an ENUMERATED node. Items marked as extension markers
// only set Extensible.
func NewEnumerated(info Info, items []descriptor.EnumValue, extensible bool) *Enumerated {
	e := &Enumerated{Info: info, values: make(map[string]int64, len(items)), Extensible: extensible}
	for _, item := range items {
		if item.Marker {
			e.Extensible = true
			continue
		}
		if _, dup := e.values[item.Name]; !dup {
			e.names = append(e.names, item.Name)
		}
		e.values[item.Name] = item.Number
	}
	return e
}

func (*Enumerated) Kind() Kind { return KindEnumerated }

// Value returns the number assigned to name.
func (e *Enumerated) Value(name string) (int64, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Names returns the item names in declaration order.
func (e *Enumerated) Names() []string { return slices.Clone(e.names) }

func (e *Enumerated) String() string { return KindEnumerated.Label() + "(" + e.Name + ")" }

func (*Enumerated) node() {}

// Recursive stands in for a type that is already being compiled further up
// the chain. It has no children and cannot be encoded or decoded.
type Recursive struct {
	Info
	TypeName string
	Module   string
}

// NewRecursive returns a placeholder for typeName in module.
func NewRecursive(info Info, typeName, module string) *Recursive {
	return &Recursive{Info: info, TypeName: typeName, Module: module}
}

func (*Recursive) Kind() Kind { return KindRecursive }

func (r *Recursive) String() string { return KindRecursive.Label() + "(" + r.Name + ")" }

func (*Recursive) node() {}

func formatMembers(k Kind, name string, members []Node) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return k.Label() + "(" + name + ", [" + strings.Join(parts, ", ") + "])"
}

func formatElement(k Kind, name string, element Node) string {
	return k.Label() + "(" + name + ", " + element.String() + ")"
}
