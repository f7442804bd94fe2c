package descriptor

import (
	"encoding/json"
	"os"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
)

const sampleSpec = `{
  "Sample": {
    "extensibility-implied": true,
    "imports": {"Other": ["Shared"]},
    "object-classes": {},
    "object-sets": {},
    "types": {
      "Record": {
        "type": "SEQUENCE",
        "tag": {"number": 3, "kind": "IMPLICIT"},
        "members": [
          {"name": "id", "type": "INTEGER", "restricted-to": [[0, 255]]},
          {"name": "flag", "type": "BOOLEAN", "default": true},
          null,
          [{"name": "extra", "type": "Shared", "optional": true}],
          {"name": "late", "type": "NULL", "optional": true}
        ]
      },
      "Color": {"type": "ENUMERATED", "values": [["red", 0], null, ["blue", 2]]},
      "Flags": {"type": "BIT STRING", "named-bits": [["a", "0"], ["b", 3]], "size": [8]}
    },
    "values": {
      "big": {"type": "INTEGER", "value": 12345678901234567890}
    }
  },
  "Other": {"types": {"Shared": {"type": "OCTET STRING"}}, "values": {}}
}`

func TestDecode(t *testing.T) {
	spec, err := Decode(strings.NewReader(sampleSpec))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := spec.ModuleNames(); !slices.Equal(got, []string{"Other", "Sample"}) {
		t.Fatalf("ModuleNames() = %v, want [Other Sample]", got)
	}

	m := spec["Sample"]
	if !m.ExtensibilityImplied {
		t.Fatalf("ExtensibilityImplied = false, want true")
	}
	if got := m.Imports["Other"]; !slices.Equal(got, []string{"Shared"}) {
		t.Fatalf("Imports[Other] = %v, want [Shared]", got)
	}
	if got := m.TypeNames(); !slices.Equal(got, []string{"Color", "Flags", "Record"}) {
		t.Fatalf("TypeNames() = %v, want [Color Flags Record]", got)
	}

	record := m.Types["Record"]
	if record.Tag == nil || record.Tag.Number != 3 || record.Tag.Kind != "IMPLICIT" {
		t.Fatalf("Tag = %+v, want number 3 IMPLICIT", record.Tag)
	}
	if len(record.Members) != 5 {
		t.Fatalf("len(Members) = %d, want 5", len(record.Members))
	}
	if id := record.Members[0].Type; id == nil || id.Name != "id" || id.Type != "INTEGER" {
		t.Fatalf("Members[0] = %+v, want id INTEGER", record.Members[0])
	}
	if bound := record.Members[0].Type.RestrictedTo[0].([]any)[1]; bound != json.Number("255") {
		t.Fatalf("restricted-to upper = %#v, want json.Number 255", bound)
	}
	if flag := record.Members[1].Type; !flag.HasDefault() || flag.Default != true {
		t.Fatalf("Members[1] default = %#v, want true", flag.Default)
	}
	if !record.Members[2].Marker {
		t.Fatalf("Members[2] = %+v, want extension marker", record.Members[2])
	}
	group := record.Members[3]
	if !group.IsGroup() || len(group.Group) != 1 || group.Group[0].Type.Name != "extra" {
		t.Fatalf("Members[3] = %+v, want addition group with extra", group)
	}
	if late := record.Members[4].Type; late == nil || !late.Optional {
		t.Fatalf("Members[4] = %+v, want optional late", record.Members[4])
	}

	color := m.Types["Color"]
	want := []EnumValue{{Name: "red", Number: 0}, {Marker: true}, {Name: "blue", Number: 2}}
	if !slices.Equal(color.Values, want) {
		t.Fatalf("Values = %+v, want %+v", color.Values, want)
	}

	flags := m.Types["Flags"]
	if got := flags.NamedBits; !slices.Equal(got, []NamedBit{{Name: "a", Position: 0}, {Name: "b", Position: 3}}) {
		t.Fatalf("NamedBits = %+v", got)
	}
	if flags.Size[0] != json.Number("8") {
		t.Fatalf("Size = %#v, want [8]", flags.Size)
	}

	big := m.Values["big"]
	if big.Type.Type != "INTEGER" || big.Value != json.Number("12345678901234567890") {
		t.Fatalf("Values[big] = %+v", big)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "syntax", data: `{"M": `},
		{name: "null module", data: `{"M": null}`},
		{name: "member scalar", data: `{"M": {"types": {"T": {"type": "SEQUENCE", "members": [1]}}}}`},
		{name: "enum shape", data: `{"M": {"types": {"T": {"type": "ENUMERATED", "values": [["a"]]}}}}`},
		{name: "named bit position", data: `{"M": {"types": {"T": {"type": "BIT STRING", "named-bits": [["a", "x"]]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.data)); err == nil {
				t.Fatalf("Decode() error = nil, want error")
			}
		})
	}

	if _, err := Decode(nil); err == nil {
		t.Fatalf("Decode(nil) error = nil, want error")
	}
}

func TestDecodeFile(t *testing.T) {
	fsys := fstest.MapFS{
		"spec.json": &fstest.MapFile{Data: []byte(sampleSpec)},
	}
	spec, err := DecodeFile(fsys, "spec.json")
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if len(spec) != 2 {
		t.Fatalf("len(spec) = %d, want 2", len(spec))
	}
	if _, err := DecodeFile(fsys, "missing.json"); err == nil {
		t.Fatalf("DecodeFile(missing) error = nil, want error")
	}
	if _, err := DecodeFile(nil, "spec.json"); err == nil {
		t.Fatalf("DecodeFile(nil fs) error = nil, want error")
	}
}

func TestDecodeAllTypesFixture(t *testing.T) {
	spec, err := DecodeFile(os.DirFS("../testdata"), "all_types.json")
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	m, ok := spec["AllTypes"]
	if !ok {
		t.Fatalf("module AllTypes missing")
	}
	if got := len(m.ValueNames()); got != 8 {
		t.Fatalf("len(ValueNames()) = %d, want 8", got)
	}
	seq := m.Types["Sequence3"]
	if len(seq.Members) != 2 || !seq.Members[1].Marker {
		t.Fatalf("Sequence3 members = %+v, want member then marker", seq.Members)
	}
}

func TestMemberConstructors(t *testing.T) {
	if g := AdditionGroup(); !g.IsGroup() {
		t.Fatalf("AdditionGroup().IsGroup() = false, want true")
	}
	if m := ExtensionMarker(); m.IsGroup() || !m.Marker {
		t.Fatalf("ExtensionMarker() = %+v", m)
	}
	var nilType *Type
	if nilType.HasDefault() {
		t.Fatalf("HasDefault() on nil = true, want false")
	}
}
