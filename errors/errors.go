package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the cause of a compile or encode failure.
type ErrorCode string

const (
	// ErrModuleNotFound indicates a module name is not present in the specification.
	ErrModuleNotFound ErrorCode = "asn1-module-not-found"
	// ErrTypeNotFound indicates a type reference could not be resolved, including through imports.
	ErrTypeNotFound ErrorCode = "asn1-type-not-found"
	// ErrConstraintInvalid indicates a constraint has a malformed shape.
	ErrConstraintInvalid ErrorCode = "asn1-constraint-invalid"
	// ErrDescriptorInvalid indicates a type descriptor is structurally invalid.
	ErrDescriptorInvalid ErrorCode = "asn1-descriptor-invalid"

	// ErrMemberMissing indicates a required SEQUENCE member is absent from the value.
	ErrMemberMissing ErrorCode = "asn1-member-missing"
	// ErrChoiceInvalid indicates a CHOICE value names an undeclared alternative.
	ErrChoiceInvalid ErrorCode = "asn1-choice-invalid"
	// ErrRealNaN indicates a REAL value is NaN.
	ErrRealNaN ErrorCode = "asn1-real-nan"
	// ErrValueInvalid indicates a value has the wrong Go shape for its type.
	ErrValueInvalid ErrorCode = "asn1-value-invalid"
	// ErrValueNotFound indicates a value assignment name is not declared.
	ErrValueNotFound ErrorCode = "asn1-value-not-found"
)

// ErrUnsupported is matched by every Unsupported error.
var ErrUnsupported = errors.New("not implemented")

// Compile describes a schema that cannot be compiled.
//
//nolint:errname // public API name uses the ASN.1 toolchain term.
type Compile struct {
	Code    string
	Message string
	Module  string
	Type    string
}

// Error formats the compile error with its code and type context.
func (e *Compile) Error() string {
	if e == nil {
		return "compile <nil>"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	switch {
	case e.Module != "" && e.Type != "":
		b.WriteString(fmt.Sprintf(" (type %s.%s)", e.Module, e.Type))
	case e.Type != "":
		b.WriteString(fmt.Sprintf(" (type %s)", e.Type))
	case e.Module != "":
		b.WriteString(fmt.Sprintf(" (module %s)", e.Module))
	}
	return b.String()
}

// NewCompile builds a Compile error with a code and message.
func NewCompile(code ErrorCode, msg string) *Compile {
	return &Compile{Code: string(code), Message: msg}
}

// NewCompilef formats a message and builds a Compile error.
func NewCompilef(code ErrorCode, format string, args ...any) *Compile {
	return NewCompile(code, fmt.Sprintf(format, args...))
}

// Encode describes a value that cannot be rendered by its compiled type.
//
// Location lists member names from the outermost to the innermost value.
//
//nolint:errname // public API name uses the ASN.1 toolchain term.
type Encode struct {
	Code     string
	Message  string
	Location []string
}

// Error formats the encode error, prefixing the member location when present.
func (e *Encode) Error() string {
	if e == nil {
		return "encode <nil>"
	}
	if len(e.Location) == 0 {
		return e.Message
	}
	return strings.Join(e.Location, ": ") + ": " + e.Message
}

// NewEncode builds an Encode error with a code and message.
func NewEncode(code ErrorCode, msg string) *Encode {
	return &Encode{Code: string(code), Message: msg}
}

// NewEncodef formats a message and builds an Encode error.
func NewEncodef(code ErrorCode, format string, args ...any) *Encode {
	return NewEncode(code, fmt.Sprintf(format, args...))
}

// WithLocation returns err with name prepended to its location when err is an
// Encode error, and err unchanged otherwise.
func WithLocation(err error, name string) error {
	if name == "" {
		return err
	}
	var enc *Encode
	if !errors.As(err, &enc) {
		return err
	}
	location := make([]string, 0, len(enc.Location)+1)
	location = append(location, name)
	location = append(location, enc.Location...)
	return &Encode{Code: enc.Code, Message: enc.Message, Location: location}
}

// Decode describes input that cannot be parsed by a compiled type.
//
//nolint:errname // public API name, mirrors Compile and Encode.
type Decode struct {
	Code    string
	Message string
}

// Error returns the decode message.
func (e *Decode) Error() string {
	if e == nil {
		return "decode <nil>"
	}
	return e.Message
}

// NewDecodef formats a message and builds a Decode error.
func NewDecodef(code ErrorCode, format string, args ...any) *Decode {
	return &Decode{Code: string(code), Message: fmt.Sprintf(format, args...)}
}

// Unsupported reports a recognized construct whose operation is not implemented.
//
//nolint:errname // public API name, mirrors ErrUnsupported.
type Unsupported struct {
	Construct string
	Message   string
}

// Error returns the unsupported message.
func (e *Unsupported) Error() string {
	if e == nil {
		return "unsupported <nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Construct + " is not yet implemented."
}

// Is reports whether target is ErrUnsupported.
func (e *Unsupported) Is(target error) bool {
	return target == ErrUnsupported
}

// NewUnsupported builds an Unsupported error for construct.
func NewUnsupported(construct string) *Unsupported {
	return &Unsupported{Construct: construct}
}

// NewUnsupportedf builds an Unsupported error for construct with a formatted message.
func NewUnsupportedf(construct, format string, args ...any) *Unsupported {
	return &Unsupported{Construct: construct, Message: fmt.Sprintf(format, args...)}
}

// AsCompile extracts a Compile error from err.
func AsCompile(err error) (*Compile, bool) {
	return as[*Compile](err)
}

// AsEncode extracts an Encode error from err.
func AsEncode(err error) (*Encode, bool) {
	return as[*Encode](err)
}

// AsDecode extracts a Decode error from err.
func AsDecode(err error) (*Decode, bool) {
	return as[*Decode](err)
}

// AsUnsupported extracts an Unsupported error from err.
func AsUnsupported(err error) (*Unsupported, bool) {
	return as[*Unsupported](err)
}

// IsUnsupported reports whether err marks an unimplemented construct or operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

func as[T error](err error) (T, bool) {
	var target T
	if err == nil {
		return target, false
	}
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}
