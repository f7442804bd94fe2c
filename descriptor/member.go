package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Member is one entry of a constructed type's member list.
//
// Exactly one form is set: a concrete member (Type), an extension marker
// (Marker, written "..." in ASN.1) or an extension addition group (Group,
// written "[[ ... ]]").
type Member struct {
	Type   *Type
	Group  []Member
	Marker bool
}

// MemberOf returns a concrete member entry.
func MemberOf(t *Type) Member {
	return Member{Type: t}
}

// ExtensionMarker returns an extension marker entry.
func ExtensionMarker() Member {
	return Member{Marker: true}
}

// AdditionGroup returns an extension addition group entry.
func AdditionGroup(members ...Member) Member {
	if members == nil {
		members = []Member{}
	}
	return Member{Group: members}
}

// IsGroup reports whether the entry is an extension addition group.
func (m Member) IsGroup() bool {
	return m.Group != nil
}

// UnmarshalJSON decodes an object as a member, null as a marker and an array
// as an addition group.
func (m *Member) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*m = ExtensionMarker()
		return nil
	case len(data) > 0 && data[0] == '[':
		var group []Member
		if err := unmarshalNumbers(data, &group); err != nil {
			return fmt.Errorf("decode addition group: %w", err)
		}
		*m = AdditionGroup(group...)
		return nil
	case len(data) > 0 && data[0] == '{':
		var t Type
		if err := unmarshalNumbers(data, &t); err != nil {
			return fmt.Errorf("decode member: %w", err)
		}
		*m = MemberOf(&t)
		return nil
	default:
		return fmt.Errorf("decode member: unexpected %s", data)
	}
}

// EnumValue is one ENUMERATED item, or an extension marker when Marker is set.
type EnumValue struct {
	Name   string
	Number int64
	Marker bool
}

// UnmarshalJSON decodes a [name, number] pair, or null as a marker.
func (v *EnumValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = EnumValue{Marker: true}
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode enumeration value: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode enumeration value: want [name, number], got %s", data)
	}
	var name string
	if err := json.Unmarshal(pair[0], &name); err != nil {
		return fmt.Errorf("decode enumeration name: %w", err)
	}
	var number int64
	if err := json.Unmarshal(pair[1], &number); err != nil {
		return fmt.Errorf("decode enumeration %s number: %w", name, err)
	}
	*v = EnumValue{Name: name, Number: number}
	return nil
}

// NamedBit is one named bit of a BIT STRING.
type NamedBit struct {
	Name     string
	Position int
}

// UnmarshalJSON decodes a [name, position] pair where position is a number or
// a decimal string.
func (b *NamedBit) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode named bit: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode named bit: want [name, position], got %s", data)
	}
	var name string
	if err := json.Unmarshal(pair[0], &name); err != nil {
		return fmt.Errorf("decode named bit name: %w", err)
	}
	var position int
	if err := json.Unmarshal(pair[1], &position); err != nil {
		var text string
		if strErr := json.Unmarshal(pair[1], &text); strErr != nil {
			return fmt.Errorf("decode named bit %s position: %w", name, err)
		}
		position, err = strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("decode named bit %s position: %w", name, err)
		}
	}
	*b = NamedBit{Name: name, Position: position}
	return nil
}
