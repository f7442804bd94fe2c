// Package compiler turns type descriptors into compiled type node trees.
//
// Compilation is codec independent: every backend consumes the same Output.
// A Compiler only reads its specification, and all per-call state travels in
// an explicit context, so one Compiler may serve concurrent callers.
package compiler

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jacoelho/asn1/descriptor"
	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/constraint"
	"github.com/jacoelho/asn1/internal/typenode"
)

// Options configures a Compiler.
type Options struct {
	Logger *slog.Logger
}

// Compiler compiles the types of one specification.
type Compiler struct {
	spec   descriptor.Specification
	logger *slog.Logger
}

// Output is one compiled top-level type.
type Output struct {
	Root        typenode.Node
	Module      string
	Name        string
	Constraints constraint.Set
}

// New returns a compiler over spec.
func New(spec descriptor.Specification, opts Options) *Compiler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{spec: spec, logger: logger}
}

// Process compiles the type called name in module.
func (c *Compiler) Process(module, name string) (Output, error) {
	m, err := c.module(module)
	if err != nil {
		return Output{}, err
	}
	t, ok := m.Types[name]
	if !ok || t == nil {
		return Output{}, &errors.Compile{
			Code:    string(errors.ErrTypeNotFound),
			Message: fmt.Sprintf("Type '%s' not found in module '%s'.", name, module),
			Module:  module,
		}
	}
	key := typeKey{module: module, name: name}
	ctx := compileContext{module: module, backtrace: backtrace{}.push(key)}

	root, err := c.compileType(ctx, typenode.Info{Name: name}, t)
	if err != nil {
		return Output{}, annotate(err, module, name)
	}
	constraints, err := constraint.Extract(t)
	if err != nil {
		return Output{}, annotate(err, module, name)
	}
	return Output{Root: root, Module: module, Name: name, Constraints: constraints}, nil
}

// ProcessAll compiles every type of every module, in ascending module and
// type name order. It stops at the first invalid type.
func (c *Compiler) ProcessAll() ([]Output, error) {
	var out []Output
	for _, module := range c.spec.ModuleNames() {
		for _, name := range c.spec[module].TypeNames() {
			compiled, err := c.Process(module, name)
			if err != nil {
				return nil, err
			}
			out = append(out, compiled)
		}
	}
	return out, nil
}

// ProcessValue compiles the type of the value assignment called name in
// module. The returned Output is named after the value's declared type.
func (c *Compiler) ProcessValue(module, name string) (Output, *descriptor.ValueAssignment, error) {
	m, err := c.module(module)
	if err != nil {
		return Output{}, nil, err
	}
	va, ok := m.Values[name]
	if !ok || va == nil {
		return Output{}, nil, &errors.Compile{
			Code:    string(errors.ErrTypeNotFound),
			Message: fmt.Sprintf("Value '%s' not found in module '%s'.", name, module),
			Module:  module,
		}
	}
	ctx := compileContext{module: module}
	root, err := c.compileType(ctx, typenode.Info{Name: name}, &va.Type)
	if err != nil {
		return Output{}, nil, annotate(err, module, name)
	}
	constraints, err := constraint.Extract(&va.Type)
	if err != nil {
		return Output{}, nil, annotate(err, module, name)
	}
	return Output{Root: root, Module: module, Name: va.Type.Type, Constraints: constraints}, va, nil
}

// ValueNames returns the value assignment names of module in ascending order.
func (c *Compiler) ValueNames(module string) []string {
	m, ok := c.spec[module]
	if !ok || m == nil {
		return nil
	}
	return m.ValueNames()
}

func (c *Compiler) module(name string) (*descriptor.Module, error) {
	m, ok := c.spec[name]
	if !ok || m == nil {
		return nil, &errors.Compile{
			Code:    string(errors.ErrModuleNotFound),
			Message: fmt.Sprintf("Module '%s' not found.", name),
			Module:  name,
		}
	}
	return m, nil
}

// resolve finds the descriptor of a user-defined type referenced from module,
// first among the module's own types and then through its imports.
func (c *Compiler) resolve(module, name string) (typeKey, *descriptor.Type, error) {
	m, err := c.module(module)
	if err != nil {
		return typeKey{}, nil, err
	}
	if t, ok := m.Types[name]; ok && t != nil {
		return typeKey{module: module, name: name}, t, nil
	}
	for _, from := range sortedKeys(m.Imports) {
		if !slices.Contains(m.Imports[from], name) {
			continue
		}
		imported, err := c.module(from)
		if err != nil {
			return typeKey{}, nil, err
		}
		t, ok := imported.Types[name]
		if !ok || t == nil {
			return typeKey{}, nil, errors.NewCompilef(errors.ErrTypeNotFound,
				"Type '%s' imported by module '%s' not found in module '%s'.", name, module, from)
		}
		c.logger.Debug("resolved imported type", "type", name, "module", module, "from", from)
		return typeKey{module: from, name: name}, t, nil
	}
	return typeKey{}, nil, errors.NewCompilef(errors.ErrTypeNotFound,
		"Type '%s' not found in module '%s'.", name, module)
}

// annotate fills the module and type of a compile error raised while
// compiling the named top-level type.
func annotate(err error, module, name string) error {
	compileErr, ok := errors.AsCompile(err)
	if !ok || compileErr.Type != "" {
		return err
	}
	out := *compileErr
	out.Module = module
	out.Type = name
	return &out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
