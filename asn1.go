// Package asn1 compiles ASN.1 type descriptors into typed node trees and
// renders values through a codec.
//
// A Schema is built once from a descriptor specification and is safe for
// concurrent use.
package asn1

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/jacoelho/asn1/descriptor"
	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/codec"
	"github.com/jacoelho/asn1/internal/compiler"
	"github.com/jacoelho/asn1/internal/constraint"
	"github.com/jacoelho/asn1/internal/literal"
)

// CompiledType is a top-level type bound to a codec.
type CompiledType = codec.Type

// Constraints are the constraints declared on a top-level type.
type Constraints = constraint.Set

// Schema holds every compiled type and value assignment of a specification.
type Schema struct {
	compiler *compiler.Compiler
	backend  codec.Backend
	logger   *slog.Logger
	types    map[string]map[string]CompiledType
	values   map[string]map[string]compiledValue
	modules  []string
}

// compiledValue is a value assignment bound to its type. err holds an
// Unsupported literal conversion, reported when the value is encoded.
type compiledValue struct {
	typ   CompiledType
	value any
	err   error
}

// Compile compiles every type and every value assignment of every module in
// spec. It fails on the first invalid type or value.
func Compile(spec descriptor.Specification, opts CompileOptions) (*Schema, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	c := compiler.New(spec, compiler.Options{Logger: resolved.logger})
	outputs, err := c.ProcessAll()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	s := &Schema{
		compiler: c,
		backend:  resolved.backend,
		logger:   resolved.logger,
		types:    make(map[string]map[string]CompiledType, len(spec)),
		values:   make(map[string]map[string]compiledValue, len(spec)),
		modules:  spec.ModuleNames(),
	}
	for _, module := range s.modules {
		s.types[module] = make(map[string]CompiledType)
		s.values[module] = make(map[string]compiledValue)
	}
	for _, out := range outputs {
		s.types[out.Module][out.Name] = resolved.backend.Bind(out)
	}
	values := 0
	for _, module := range s.modules {
		for _, name := range c.ValueNames(module) {
			compiled, err := s.compileValue(module, name)
			if err != nil {
				return nil, fmt.Errorf("compile schema: value %s.%s: %w", module, name, err)
			}
			s.values[module][name] = compiled
			values++
		}
	}
	resolved.logger.Debug("compiled schema",
		"codec", resolved.backend.Name(), "modules", len(s.modules), "types", len(outputs), "values", values)
	return s, nil
}

func (s *Schema) compileValue(module, name string) (compiledValue, error) {
	out, assignment, err := s.compiler.ProcessValue(module, name)
	if err != nil {
		return compiledValue{}, err
	}
	compiled := compiledValue{typ: s.backend.Bind(out)}
	compiled.value, compiled.err = literal.Convert(out.Root, assignment.Value)
	if compiled.err != nil && !errors.IsUnsupported(compiled.err) {
		return compiledValue{}, compiled.err
	}
	if compiled.err != nil {
		s.logger.Debug("value literal not supported", "module", module, "value", name, "error", compiled.err)
	}
	return compiled, nil
}

// CompileFile decodes the JSON specification at name in fsys and compiles it.
func CompileFile(fsys fs.FS, name string, opts CompileOptions) (*Schema, error) {
	spec, err := descriptor.DecodeFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	schema, err := Compile(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// CompilePath compiles the JSON specification at a file path.
func CompilePath(path string, opts CompileOptions) (*Schema, error) {
	return CompileFile(os.DirFS(filepath.Dir(path)), filepath.Base(path), opts)
}

// Modules returns the module names in ascending order.
func (s *Schema) Modules() []string {
	return append([]string(nil), s.modules...)
}

// Type returns the compiled type called name, searching modules in ascending
// name order.
func (s *Schema) Type(name string) (CompiledType, error) {
	if t, ok := s.lookup(name); ok {
		return t, nil
	}
	return nil, errors.NewCompilef(errors.ErrTypeNotFound, "Type '%s' not found.", name)
}

func (s *Schema) lookup(name string) (CompiledType, bool) {
	for _, module := range s.modules {
		if t, ok := s.types[module][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ModuleType returns the compiled type called name in module.
func (s *Schema) ModuleType(module, name string) (CompiledType, error) {
	types, ok := s.types[module]
	if !ok {
		return nil, &errors.Compile{
			Code:    string(errors.ErrModuleNotFound),
			Message: fmt.Sprintf("Module '%s' not found.", module),
			Module:  module,
		}
	}
	t, ok := types[name]
	if !ok {
		return nil, &errors.Compile{
			Code:    string(errors.ErrTypeNotFound),
			Message: fmt.Sprintf("Type '%s' not found in module '%s'.", name, module),
			Module:  module,
		}
	}
	return t, nil
}

// Types returns the compiled types of module in ascending name order.
func (s *Schema) Types(module string) []CompiledType {
	types := s.types[module]
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]CompiledType, 0, len(names))
	for _, name := range names {
		out = append(out, types[name])
	}
	return out
}

// Encode renders v as a value of the type called name. An undeclared name
// is an Encode error.
func (s *Schema) Encode(name string, v any, opts EncodeOptions) ([]byte, error) {
	t, ok := s.lookup(name)
	if !ok {
		return nil, errors.NewEncodef(errors.ErrTypeNotFound, "Type '%s' not found in types dictionary.", name)
	}
	return t.Encode(v, opts)
}

// Decode parses data as a value of the type called name. An undeclared name
// is a Decode error.
func (s *Schema) Decode(name string, data []byte) (any, error) {
	t, ok := s.lookup(name)
	if !ok {
		return nil, errors.NewDecodef(errors.ErrTypeNotFound, "Type '%s' not found in types dictionary.", name)
	}
	return t.Decode(data)
}

// EncodeValue renders the value assignment called name in module, such as
// "foo INTEGER ::= 1". The value name defaults to the assignment name.
func (s *Schema) EncodeValue(module, name string, opts EncodeOptions) ([]byte, error) {
	compiled, ok := s.values[module][name]
	if !ok {
		return nil, errors.NewEncodef(errors.ErrValueNotFound, "Value '%s' not found in module '%s'.", name, module)
	}
	if compiled.err != nil {
		return nil, compiled.err
	}
	if _, ok := opts.ValueName(); !ok {
		opts = opts.WithValueName(name)
	}
	return compiled.typ.Encode(compiled.value, opts)
}

// ValueNames returns the value assignment names of module in ascending order.
func (s *Schema) ValueNames(module string) []string {
	return slices.Sorted(maps.Keys(s.values[module]))
}

// RecursiveTypes returns, per module, the ascending names of the types that
// reference themselves directly or indirectly. Values reaching such a
// reference cannot be encoded.
func (s *Schema) RecursiveTypes() (map[string][]string, error) {
	return s.compiler.RecursiveTypes()
}
