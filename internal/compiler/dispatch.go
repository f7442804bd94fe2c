package compiler

import (
	"github.com/jacoelho/asn1/descriptor"
	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/typenode"
)

func (c *Compiler) compileType(ctx compileContext, info typenode.Info, t *descriptor.Type) (typenode.Node, error) {
	if t == nil {
		return nil, errors.NewCompilef(errors.ErrDescriptorInvalid, "Type descriptor of '%s' is null.", info.Name)
	}
	if t.Type == "" {
		return nil, errors.NewCompilef(errors.ErrDescriptorInvalid, "Type descriptor of '%s' has no type.", info.Name)
	}
	if info.Tag == nil {
		info.Tag = t.Tag
	}

	kind, ok := typenode.ParseKind(t.Type)
	if !ok {
		return c.compileUserType(ctx, info, t.Type)
	}

	switch kind {
	case typenode.KindSequence:
		members, extensible, err := c.compileMembers(ctx, t.Members)
		if err != nil {
			return nil, err
		}
		return typenode.NewSequence(info, members, extensible || c.extensibilityImplied(ctx)), nil
	case typenode.KindSet:
		members, extensible, err := c.compileMembers(ctx, t.Members)
		if err != nil {
			return nil, err
		}
		return typenode.NewSet(info, members, extensible || c.extensibilityImplied(ctx)), nil
	case typenode.KindChoice:
		members, extensible, err := c.compileMembers(ctx, t.Members)
		if err != nil {
			return nil, err
		}
		return typenode.NewChoice(info, members, extensible || c.extensibilityImplied(ctx)), nil
	case typenode.KindSequenceOf:
		element, err := c.compileElement(ctx, info, t)
		if err != nil {
			return nil, err
		}
		return typenode.NewSequenceOf(info, element), nil
	case typenode.KindSetOf:
		element, err := c.compileElement(ctx, info, t)
		if err != nil {
			return nil, err
		}
		return typenode.NewSetOf(info, element), nil
	case typenode.KindEnumerated:
		return typenode.NewEnumerated(info, t.Values, c.extensibilityImplied(ctx)), nil
	default:
		return typenode.NewPrimitive(info, kind), nil
	}
}

func (c *Compiler) compileUserType(ctx compileContext, info typenode.Info, name string) (typenode.Node, error) {
	key, t, err := c.resolve(ctx.module, name)
	if err != nil {
		return nil, err
	}
	if ctx.backtrace.contains(key) {
		c.logger.Debug("recursive type reference", "type", name, "module", key.module, "member", info.Name)
		return typenode.NewRecursive(info, name, key.module), nil
	}
	return c.compileType(ctx.enter(key), info, t)
}

func (c *Compiler) compileElement(ctx compileContext, info typenode.Info, t *descriptor.Type) (typenode.Node, error) {
	if t.Element == nil {
		return nil, errors.NewCompilef(errors.ErrDescriptorInvalid, "%s '%s' has no element type.", t.Type, info.Name)
	}
	return c.compileType(ctx, typenode.Info{}, t.Element)
}

// compileMembers flattens a member list into concrete members in declaration
// order. Members after an odd number of extension markers, and members of
// addition groups, are flagged as additions.
func (c *Compiler) compileMembers(ctx compileContext, entries []descriptor.Member) ([]typenode.Node, bool, error) {
	var (
		members    []typenode.Node
		extensible bool
		addition   bool
		group      int
	)
	for _, entry := range entries {
		switch {
		case entry.Marker:
			extensible = true
			addition = !addition
		case entry.IsGroup():
			group++
			for _, inner := range entry.Group {
				if inner.Marker || inner.IsGroup() {
					return nil, false, errors.NewCompile(errors.ErrDescriptorInvalid,
						"Extension addition groups cannot be nested or hold extension markers.")
				}
				m, err := c.compileMember(ctx, inner.Type, true, group)
				if err != nil {
					return nil, false, err
				}
				members = append(members, m)
			}
		default:
			m, err := c.compileMember(ctx, entry.Type, addition, 0)
			if err != nil {
				return nil, false, err
			}
			members = append(members, m)
		}
	}
	return members, extensible, nil
}

func (c *Compiler) compileMember(ctx compileContext, t *descriptor.Type, addition bool, group int) (typenode.Node, error) {
	if t == nil {
		return nil, errors.NewCompile(errors.ErrDescriptorInvalid, "Member descriptor is null.")
	}
	if t.Name == "" {
		return nil, errors.NewCompilef(errors.ErrDescriptorInvalid, "Member of type '%s' has no name.", t.Type)
	}
	info := typenode.Info{
		Name:          t.Name,
		Optional:      t.Optional,
		Default:       t.Default,
		HasDefault:    t.HasDefault(),
		Tag:           t.Tag,
		Addition:      addition,
		AdditionGroup: group,
	}
	return c.compileType(ctx, info, t)
}

func (c *Compiler) extensibilityImplied(ctx compileContext) bool {
	m := c.spec[ctx.module]
	return m != nil && m.ExtensibilityImplied
}
