package constraint

import (
	"encoding/json"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/jacoelho/asn1/descriptor"
	"github.com/jacoelho/asn1/errors"
)

const extensionLiteral = "..."

// Extract returns the constraints declared on t.
func Extract(t *descriptor.Type) (Set, error) {
	var s Set
	if t == nil {
		return s, nil
	}
	var err error
	if s.Size, s.SizeExtensible, err = extractRanges("size", t.Size); err != nil {
		return Set{}, err
	}
	for _, r := range s.Size {
		if err := checkSizeRange(r); err != nil {
			return Set{}, err
		}
	}
	if s.Value, s.ValueExtensible, err = extractRanges("restricted-to", t.RestrictedTo); err != nil {
		return Set{}, err
	}
	if s.Alphabet, err = extractAlphabet(t.From); err != nil {
		return Set{}, err
	}
	if s.Components, s.ComponentsPartial, err = extractComponents(t.WithComponents); err != nil {
		return Set{}, err
	}
	for _, bit := range t.NamedBits {
		if bit.Position < 0 {
			return Set{}, errors.NewCompilef(errors.ErrConstraintInvalid,
				"named bit '%s' has negative position %d", bit.Name, bit.Position)
		}
		s.NamedBits = append(s.NamedBits, NamedBit{Name: bit.Name, Position: bit.Position})
	}
	return s, nil
}

func extractRanges(field string, entries []any) ([]Range, bool, error) {
	var (
		ranges     []Range
		extensible bool
	)
	for _, entry := range entries {
		if isExtensionMarker(entry) {
			extensible = true
			continue
		}
		r, err := parseRange(entry)
		if err != nil {
			return nil, false, errors.NewCompilef(errors.ErrConstraintInvalid,
				"invalid %s constraint %v: %v", field, entry, err)
		}
		ranges = append(ranges, r)
	}
	return ranges, extensible, nil
}

func parseRange(entry any) (Range, error) {
	if pair, ok := asList(entry); ok {
		if len(pair) != 2 {
			return Range{}, errShape("want (lower, upper) pair")
		}
		lower, err := parseBound(pair[0])
		if err != nil {
			return Range{}, err
		}
		upper, err := parseBound(pair[1])
		if err != nil {
			return Range{}, err
		}
		return Range{Lower: lower, Upper: upper}, nil
	}
	b, err := parseBound(entry)
	if err != nil {
		return Range{}, err
	}
	return Range{Lower: b, Upper: b, Single: true}, nil
}

func parseBound(v any) (Bound, error) {
	scalar, ok := normalizeScalar(v)
	if !ok {
		return Bound{}, errShape("bound is not a scalar")
	}
	switch scalar {
	case "MIN":
		return Bound{Kind: BoundMin}, nil
	case "MAX":
		return Bound{Kind: BoundMax}, nil
	}
	return Bound{Value: scalar}, nil
}

func checkSizeRange(r Range) error {
	for _, b := range []Bound{r.Lower, r.Upper} {
		switch v := b.Value.(type) {
		case int64:
			if v < 0 {
				return errors.NewCompilef(errors.ErrConstraintInvalid, "invalid size constraint %s: negative size", r)
			}
		case float64, bool:
			return errors.NewCompilef(errors.ErrConstraintInvalid, "invalid size constraint %s: size must be an integer", r)
		}
	}
	return nil
}

func extractAlphabet(entries []any) ([]CharRange, error) {
	var out []CharRange
	for _, entry := range entries {
		if pair, ok := asList(entry); ok {
			if len(pair) != 2 {
				return nil, errors.NewCompilef(errors.ErrConstraintInvalid,
					"invalid from constraint %v: want (first, last) pair", entry)
			}
			first, okFirst := singleRune(pair[0])
			last, okLast := singleRune(pair[1])
			if !okFirst || !okLast {
				return nil, errors.NewCompilef(errors.ErrConstraintInvalid,
					"invalid from constraint %v: range bounds must be single characters", entry)
			}
			if first > last {
				return nil, errors.NewCompilef(errors.ErrConstraintInvalid,
					"invalid from constraint %v: first character after last", entry)
			}
			out = append(out, CharRange{First: first, Last: last})
			continue
		}
		chars, ok := entry.(string)
		if !ok {
			return nil, errors.NewCompilef(errors.ErrConstraintInvalid,
				"invalid from constraint %v: want string or (first, last) pair", entry)
		}
		for _, r := range chars {
			out = append(out, CharRange{First: r, Last: r})
		}
	}
	return out, nil
}

func extractComponents(entries []any) ([]Component, bool, error) {
	var (
		out     []Component
		partial bool
	)
	for _, entry := range entries {
		if isExtensionMarker(entry) {
			partial = true
			continue
		}
		if inner, ok := entry.(map[string]any); ok {
			out = append(out, Component{Value: normalizeRaw(inner)})
			continue
		}
		list, ok := asList(entry)
		if !ok || len(list) == 0 {
			return nil, false, errors.NewCompilef(errors.ErrConstraintInvalid,
				"invalid with-components constraint %v: want (name, ...) entry", entry)
		}
		name, ok := list[0].(string)
		if !ok || name == "" {
			return nil, false, errors.NewCompilef(errors.ErrConstraintInvalid,
				"invalid with-components constraint %v: component name must be a string", entry)
		}
		c := Component{Name: name}
		for _, item := range list[1:] {
			if p, ok := parsePresence(item); ok {
				c.Presence = p
				continue
			}
			c.Value = normalizeRaw(item)
		}
		out = append(out, c)
	}
	return out, partial, nil
}

func parsePresence(v any) (Presence, bool) {
	s, ok := v.(string)
	if !ok {
		return PresenceUnspecified, false
	}
	switch s {
	case "PRESENT":
		return PresencePresent, true
	case "ABSENT":
		return PresenceAbsent, true
	case "OPTIONAL":
		return PresenceOptional, true
	default:
		return PresenceUnspecified, false
	}
}

func isExtensionMarker(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == extensionLiteral
}

func singleRune(v any) (rune, bool) {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// asList reports whether v is a slice or array and returns its elements.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

// normalizeScalar maps numeric kinds to int64 or float64 and keeps strings and
// booleans. It rejects lists, maps and nil.
func normalizeScalar(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string, bool, int64, float64:
		return x, true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		if f, err := x.Float64(); err == nil {
			return f, true
		}
		return x.String(), true
	case float32:
		return float64(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), true
		}
		return int64(u), true
	default:
		return nil, false
	}
}

// normalizeRaw applies normalizeScalar through nested lists and maps.
func normalizeRaw(v any) any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalizeRaw(item)
		}
		return out
	}
	if list, ok := asList(v); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = normalizeRaw(item)
		}
		return out
	}
	if s, ok := normalizeScalar(v); ok {
		return s
	}
	return v
}

type shapeError string

func (e shapeError) Error() string { return string(e) }

func errShape(msg string) error { return shapeError(msg) }
