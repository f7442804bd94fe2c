// Package codec defines the contract between compiled type trees and the
// encoding backends that render them.
package codec

import (
	"fmt"

	"github.com/jacoelho/asn1/internal/compiler"
	"github.com/jacoelho/asn1/internal/constraint"
)

// Type is a compiled top-level type bound to one backend.
//
// A Type is immutable and safe for concurrent use.
type Type interface {
	// Name returns the declared type name.
	Name() string
	Constraints() constraint.Set
	Encode(v any, opts EncodeOptions) ([]byte, error)
	Decode(data []byte) (any, error)
	// String returns the compiled tree in debug form.
	String() string
}

// Backend binds compiler output to one encoding.
type Backend interface {
	Name() string
	Bind(out compiler.Output) Type
}

type intOption struct {
	value int
	set   bool
}

type stringOption struct {
	value string
	set   bool
}

// EncodeOptions configures one Encode call.
type EncodeOptions struct {
	indent    intOption
	valueName stringOption
}

// NewEncodeOptions returns default options: compact layout and a value name
// derived from the type name.
func NewEncodeOptions() EncodeOptions {
	return EncodeOptions{}
}

// WithIndent selects pretty layout with value spaces per nesting level.
func (o EncodeOptions) WithIndent(value int) EncodeOptions {
	o.indent = intOption{value: value, set: true}
	return o
}

// WithValueName overrides the value name on the left of "::=".
func (o EncodeOptions) WithValueName(value string) EncodeOptions {
	o.valueName = stringOption{value: value, set: true}
	return o
}

// Indent returns the pretty layout indent, if one was set.
func (o EncodeOptions) Indent() (int, bool) {
	return o.indent.value, o.indent.set
}

// ValueName returns the value name override, if one was set.
func (o EncodeOptions) ValueName() (string, bool) {
	return o.valueName.value, o.valueName.set
}

// Validate validates option values.
func (o EncodeOptions) Validate() error {
	if o.indent.set && o.indent.value < 0 {
		return fmt.Errorf("indent must be >= 0, got %d", o.indent.value)
	}
	if o.valueName.set && o.valueName.value == "" {
		return fmt.Errorf("value name must not be empty")
	}
	return nil
}
