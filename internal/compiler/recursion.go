package compiler

import (
	"slices"

	"github.com/jacoelho/asn1/descriptor"
	"github.com/jacoelho/asn1/internal/graphcycle"
	"github.com/jacoelho/asn1/internal/typenode"
)

// RecursiveTypes returns, per module, the ascending names of the types that
// can reach themselves through type references. Such types compile to trees
// holding Recursive placeholders.
func (c *Compiler) RecursiveTypes() (map[string][]string, error) {
	recursive := make(map[typeKey]bool)
	next := func(k typeKey) ([]typeKey, error) {
		return c.references(k)
	}
	for _, module := range c.spec.ModuleNames() {
		for _, name := range c.spec[module].TypeNames() {
			start := typeKey{module: module, name: name}
			if recursive[start] {
				continue
			}
			err := graphcycle.Detect(graphcycle.Config[typeKey]{
				Starts: []typeKey{start},
				Next:   next,
				Cycles: graphcycle.CyclePolicyReport,
				OnCycle: func(cycle []typeKey) {
					for _, k := range cycle {
						recursive[k] = true
					}
				},
			})
			if err != nil {
				return nil, annotate(err, module, name)
			}
		}
	}

	out := make(map[string][]string)
	for k := range recursive {
		out[k.module] = append(out[k.module], k.name)
	}
	for module := range out {
		slices.Sort(out[module])
	}
	return out, nil
}

// references returns the user-defined types directly referenced by k.
func (c *Compiler) references(k typeKey) ([]typeKey, error) {
	t := c.spec[k.module].Types[k.name]
	var names []string
	collectReferences(t, &names)
	out := make([]typeKey, 0, len(names))
	for _, name := range names {
		ref, _, err := c.resolve(k.module, name)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func collectReferences(t *descriptor.Type, names *[]string) {
	if t == nil || t.Type == "" {
		return
	}
	if _, ok := typenode.ParseKind(t.Type); !ok {
		if !slices.Contains(*names, t.Type) {
			*names = append(*names, t.Type)
		}
		return
	}
	collectMemberReferences(t.Members, names)
	collectReferences(t.Element, names)
}

func collectMemberReferences(members []descriptor.Member, names *[]string) {
	for _, m := range members {
		switch {
		case m.IsGroup():
			collectMemberReferences(m.Group, names)
		case m.Type != nil:
			collectReferences(m.Type, names)
		}
	}
}
