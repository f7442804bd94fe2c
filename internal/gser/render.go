// Package gser renders values as ASN.1 value notation following the General
// String Encoding Rules.
//
// GSER is write-only: it produces human-readable text and never parses it back.
package gser

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/typenode"
	"github.com/jacoelho/asn1/value"
)

// Render returns the value notation of v as typed by n.
//
// separator is " " for compact layout or "\n" for pretty layout. In pretty
// layout each nested level extends the separator by indent spaces.
func Render(n typenode.Node, v any, separator string, indent int) (string, error) {
	switch n := n.(type) {
	case *typenode.Primitive:
		return renderPrimitive(n.Kind(), v)
	case *typenode.Sequence:
		return renderSequence(n, v, separator, indent)
	case *typenode.Set:
		return "", errors.NewUnsupported("SET")
	case *typenode.Choice:
		return renderChoice(n, v, separator, indent)
	case *typenode.SequenceOf:
		return renderArray(n.Element, v, separator, indent)
	case *typenode.SetOf:
		return renderArray(n.Element, v, separator, indent)
	case *typenode.Enumerated:
		return renderEnumerated(v)
	case *typenode.Recursive:
		return "", errors.NewUnsupportedf("RECURSIVE",
			"Recursive types are not yet implemented (type '%s').", n.TypeName)
	case nil:
		return "", fmt.Errorf("render: nil type node")
	default:
		return "", fmt.Errorf("render: unsupported node %T", n)
	}
}

func renderSequence(s *typenode.Sequence, v any, separator string, indent int) (string, error) {
	data, ok := v.(map[string]any)
	if !ok {
		return "", errors.NewEncodef(errors.ErrValueInvalid,
			"Expected a mapping of member names to values, but got %T.", v)
	}
	memberSeparator := separator + strings.Repeat(" ", indent)
	encoded := make([]string, 0, s.Len())

	for i := range s.Len() {
		member := s.Member(i)
		info := member.Meta()
		memberValue, present := data[info.Name]
		switch {
		case present:
			text, err := Render(member, memberValue, memberSeparator, indent)
			if err != nil {
				return "", errors.WithLocation(err, info.Name)
			}
			encoded = append(encoded, memberSeparator+info.Name+" "+text)
		case info.Optional, info.HasDefault:
		default:
			return "", errors.NewEncodef(errors.ErrMemberMissing,
				"Member '%s' not found in %v.", info.Name, data)
		}
	}

	return "{" + strings.Join(encoded, ",") + separator + "}", nil
}

func renderChoice(c *typenode.Choice, v any, separator string, indent int) (string, error) {
	var choice value.Choice
	switch x := v.(type) {
	case value.Choice:
		choice = x
	case *value.Choice:
		if x == nil {
			return "", errors.NewEncode(errors.ErrValueInvalid, "Expected a choice value, but got nil.")
		}
		choice = *x
	default:
		return "", errors.NewEncodef(errors.ErrValueInvalid,
			"Expected a choice value, but got %T.", v)
	}

	member, ok := c.Alternative(choice.Name)
	if !ok {
		return "", errors.NewEncodef(errors.ErrChoiceInvalid,
			"Expected choice %s, but got '%s'.", formatOr(c.Names()), choice.Name)
	}
	text, err := Render(member, choice.Value, separator, indent)
	if err != nil {
		return "", errors.WithLocation(err, choice.Name)
	}
	return choice.Name + " : " + text, nil
}

func renderArray(element typenode.Node, v any, separator string, indent int) (string, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return "", errors.NewEncodef(errors.ErrValueInvalid,
			"Expected a list of values, but got %T.", v)
	}
	elementSeparator := separator + strings.Repeat(" ", indent)
	encoded := make([]string, 0, rv.Len())

	for i := range rv.Len() {
		text, err := Render(element, rv.Index(i).Interface(), elementSeparator, indent)
		if err != nil {
			return "", err
		}
		encoded = append(encoded, elementSeparator+text)
	}

	return "{" + strings.Join(encoded, ",") + separator + "}", nil
}

func renderEnumerated(v any) (string, error) {
	name, ok := v.(string)
	if !ok {
		return "", errors.NewEncodef(errors.ErrValueInvalid,
			"Expected an enumeration name, but got %T.", v)
	}
	return name, nil
}

// formatOr quotes items and joins them as "'a', 'b' or 'c'".
func formatOr(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	switch len(quoted) {
	case 0:
		return "nothing"
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
	}
}
