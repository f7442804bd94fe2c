package gser

import (
	"fmt"
	"strings"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/codec"
	"github.com/jacoelho/asn1/internal/compiler"
	"github.com/jacoelho/asn1/internal/constraint"
	"github.com/jacoelho/asn1/internal/typenode"
)

// Name is the backend name.
const Name = "gser"

// Backend binds compiled types to GSER.
type Backend struct{}

// Name returns "gser".
func (Backend) Name() string { return Name }

// Bind returns the GSER façade for out.
func (Backend) Bind(out compiler.Output) codec.Type {
	return NewType(out)
}

// Type is a compiled type rendering values as GSER value assignments.
type Type struct {
	root        typenode.Node
	valueName   string
	typeName    string
	constraints constraint.Set
}

// NewType returns the GSER façade for out. The value name defaults to the
// lowercased type name.
func NewType(out compiler.Output) *Type {
	return &Type{
		root:        out.Root,
		valueName:   strings.ToLower(out.Name),
		typeName:    out.Name,
		constraints: out.Constraints,
	}
}

// Name returns the declared type name.
func (t *Type) Name() string { return t.typeName }

// Constraints returns the constraints declared on the type.
func (t *Type) Constraints() constraint.Set { return t.constraints }

// Encode renders v as "<value name> <type name> ::= <value>".
//
// Without an indent the value is laid out on one line; with an indent each
// nested level starts on a new line indented by that many spaces.
func (t *Type) Encode(v any, opts codec.EncodeOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", t.typeName, err)
	}
	separator, indent := " ", 0
	if n, ok := opts.Indent(); ok {
		separator, indent = "\n", n
	}
	encoded, err := Render(t.root, v, separator, indent)
	if err != nil {
		return nil, err
	}
	valueName := t.valueName
	if name, ok := opts.ValueName(); ok {
		valueName = name
	}
	return []byte(valueName + " " + t.typeName + " ::= " + strings.TrimLeft(encoded, " ")), nil
}

// Decode always fails: GSER output is not meant to be parsed back.
func (t *Type) Decode([]byte) (any, error) {
	return nil, errors.NewUnsupportedf("GSER decoding", "GSER decoding is not implemented.")
}

func (t *Type) String() string { return t.root.String() }
