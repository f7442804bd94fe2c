package gser

import (
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/typenode"
	"github.com/jacoelho/asn1/value"
)

func leaf(name string, k typenode.Kind) typenode.Node {
	return typenode.NewPrimitive(typenode.Info{Name: name}, k)
}

func renderCompact(t *testing.T, n typenode.Node, v any) string {
	t.Helper()
	got, err := Render(n, v, " ", 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return got
}

func TestRenderPrimitives(t *testing.T) {
	tests := []struct {
		value any
		name  string
		want  string
		kind  typenode.Kind
	}{
		{name: "true", kind: typenode.KindBoolean, value: true, want: "TRUE"},
		{name: "false", kind: typenode.KindBoolean, value: false, want: "FALSE"},
		{name: "integer", kind: typenode.KindInteger, value: 1, want: "1"},
		{name: "negative integer", kind: typenode.KindInteger, value: int64(-128), want: "-128"},
		{name: "uint64", kind: typenode.KindInteger, value: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "big integer", kind: typenode.KindInteger, value: new(big.Int).Lsh(big.NewInt(1), 100), want: "1267650600228229401496703205376"},
		{name: "uint256", kind: typenode.KindInteger, value: new(uint256.Int).Lsh(uint256.NewInt(1), 200), want: "1606938044258990275541962092341162602522202993782792835301376"},
		{name: "null", kind: typenode.KindNull, value: nil, want: "NULL"},
		{name: "object identifier", kind: typenode.KindObjectIdentifier, value: "1.2.3", want: "1.2.3"},
		{name: "octet string", kind: typenode.KindOctetString, value: []byte{0x01, 0x23}, want: "'0123'H"},
		{name: "octet string upper", kind: typenode.KindOctetString, value: []byte{0xab, 0xcd}, want: "'ABCD'H"},
		{name: "empty octet string", kind: typenode.KindOctetString, value: []byte{}, want: "''H"},
		{name: "any", kind: typenode.KindAny, value: []byte{0x0f, 0xe0}, want: "'0FE0'H"},
		{name: "utf8", kind: typenode.KindUTF8String, value: "hi", want: `"hi"`},
		{name: "ia5 brace", kind: typenode.KindIA5String, value: "{", want: `"{"`},
		{name: "numeric", kind: typenode.KindNumericString, value: "123", want: `"123"`},
		{name: "printable", kind: typenode.KindPrintableString, value: "a b", want: `"a b"`},
		{name: "visible", kind: typenode.KindVisibleString, value: "v", want: `"v"`},
		{name: "general", kind: typenode.KindGeneralString, value: "g", want: `"g"`},
		{name: "universal", kind: typenode.KindUniversalString, value: "u", want: `"u"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderCompact(t, leaf("", tt.kind), tt.value); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderReal(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: 0.0, want: "0"},
		{value: math.Copysign(0, -1), want: "0"},
		{value: math.Inf(1), want: "PLUS-INFINITY"},
		{value: math.Inf(-1), want: "MINUS-INFINITY"},
		{value: 1.0, want: "1.0E0"},
		{value: 1.5, want: "1.5E0"},
		{value: -2.25, want: "-2.25E0"},
		{value: 0.1, want: "0.1E0"},
		{value: 0.0001, want: "0.0001E0"},
		{value: 0.00001, want: "1e-05E0"},
		{value: 1e15, want: "1000000000000000.0E0"},
		{value: 1e16, want: "1e+16E0"},
		{value: 1.5e300, want: "1.5e+300E0"},
		{value: float32(0.5), want: "0.5E0"},
		{value: 3, want: "3E0"},
		{value: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := renderCompact(t, leaf("", typenode.KindReal), tt.value); got != tt.want {
				t.Fatalf("Render(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderRealNaN(t *testing.T) {
	_, err := Render(leaf("", typenode.KindReal), math.NaN(), " ", 0)
	enc, ok := errors.AsEncode(err)
	if !ok {
		t.Fatalf("Render(NaN) error = %v, want *errors.Encode", err)
	}
	if enc.Code != string(errors.ErrRealNaN) {
		t.Fatalf("Code = %q, want %q", enc.Code, errors.ErrRealNaN)
	}
}

func TestRenderBitString(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		value any
	}{
		{name: "twelve bits", value: value.NewBitString([]byte{0b10001000, 0b10010000}, 12), want: "'100010001001'B"},
		{name: "leading zeros", value: value.NewBitString([]byte{0x01}, 8), want: "'00000001'B"},
		{name: "partial byte", value: value.NewBitString([]byte{0x40}, 3), want: "'010'B"},
		{name: "pointer", value: &value.BitString{Bytes: []byte{0xff}, Length: 4}, want: "'1111'B"},
		{name: "empty", value: value.NewBitString(nil, 0), want: "''B"},
		{name: "bitlist", value: bitlistOf(true, false, true, true, false), want: "'10110'B"},
		{name: "empty bitlist", value: bitfield.NewBitlist(0), want: "''B"},
		{name: "length within last byte", value: value.NewBitString([]byte{0x88, 0x90}, 9), want: "'100010001'B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderCompact(t, leaf("", typenode.KindBitString), tt.value); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func bitlistOf(bits ...bool) bitfield.Bitlist {
	b := bitfield.NewBitlist(uint64(len(bits)))
	for i, set := range bits {
		b.SetBitAt(uint64(i), set)
	}
	return b
}

func TestRenderTimes(t *testing.T) {
	utc := time.Date(2018, 3, 4, 5, 6, 7, 0, time.UTC)
	noSeconds := time.Date(2018, 3, 4, 5, 6, 0, 0, time.UTC)
	offset := time.Date(2018, 3, 4, 5, 6, 7, 0, time.FixedZone("", -(4*3600+30*60)))
	fraction := time.Date(2018, 3, 4, 5, 6, 7, 120000000, time.UTC)

	tests := []struct {
		value time.Time
		name  string
		want  string
		kind  typenode.Kind
	}{
		{name: "utc time", kind: typenode.KindUTCTime, value: utc, want: `"180304050607Z"`},
		{name: "utc time no seconds", kind: typenode.KindUTCTime, value: noSeconds, want: `"1803040506Z"`},
		{name: "utc time offset", kind: typenode.KindUTCTime, value: offset, want: `"180304050607-0430"`},
		{name: "generalized time", kind: typenode.KindGeneralizedTime, value: utc, want: `"20180304050607Z"`},
		{name: "generalized time fraction", kind: typenode.KindGeneralizedTime, value: fraction, want: `"20180304050607.12Z"`},
		{name: "generalized time offset", kind: typenode.KindGeneralizedTime, value: offset, want: `"20180304050607-0430"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderCompact(t, leaf("", tt.kind), tt.value); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSequence(t *testing.T) {
	seq := typenode.NewSequence(typenode.Info{Name: "S"}, []typenode.Node{
		leaf("a", typenode.KindInteger),
		typenode.NewPrimitive(typenode.Info{Name: "b", Optional: true}, typenode.KindBoolean),
		typenode.NewPrimitive(typenode.Info{Name: "c", HasDefault: true, Default: 0}, typenode.KindInteger),
	}, false)

	if got, want := renderCompact(t, seq, map[string]any{"a": 1}), "{ a 1 }"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if got, want := renderCompact(t, seq, map[string]any{"a": 1, "b": true, "c": 5}), "{ a 1, b TRUE, c 5 }"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}

	_, err := Render(seq, map[string]any{"b": true}, " ", 0)
	enc, ok := errors.AsEncode(err)
	if !ok {
		t.Fatalf("Render() error = %v, want *errors.Encode", err)
	}
	if enc.Code != string(errors.ErrMemberMissing) || !strings.Contains(enc.Message, "'a'") {
		t.Fatalf("error = %v, want missing member 'a'", err)
	}

	empty := typenode.NewSequence(typenode.Info{}, nil, false)
	if got, want := renderCompact(t, empty, map[string]any{}), "{ }"; got != want {
		t.Fatalf("Render(empty) = %q, want %q", got, want)
	}
}

func TestRenderSequencePretty(t *testing.T) {
	seq := typenode.NewSequence(typenode.Info{Name: "S"}, []typenode.Node{
		leaf("a", typenode.KindInteger),
		typenode.NewSequence(typenode.Info{Name: "b"}, []typenode.Node{leaf("c", typenode.KindBoolean)}, false),
		typenode.NewSequenceOf(typenode.Info{Name: "d"}, leaf("", typenode.KindInteger)),
	}, false)
	v := map[string]any{"a": 1, "b": map[string]any{"c": true}, "d": []int{1, 2}}

	want := "{\n" +
		"    a 1,\n" +
		"    b {\n" +
		"        c TRUE\n" +
		"    },\n" +
		"    d {\n" +
		"        1,\n" +
		"        2\n" +
		"    }\n" +
		"}"
	got, err := Render(seq, v, "\n", 4)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if compact := renderCompact(t, seq, v); compact != "{ a 1, b { c TRUE }, d { 1, 2 } }" {
		t.Fatalf("Render() compact = %q", compact)
	}
}

func TestRenderNestedErrorLocation(t *testing.T) {
	inner := typenode.NewSequence(typenode.Info{Name: "inner"}, []typenode.Node{leaf("x", typenode.KindInteger)}, false)
	outer := typenode.NewSequence(typenode.Info{Name: "S"}, []typenode.Node{inner}, false)

	_, err := Render(outer, map[string]any{"inner": map[string]any{}}, " ", 0)
	enc, ok := errors.AsEncode(err)
	if !ok {
		t.Fatalf("Render() error = %v, want *errors.Encode", err)
	}
	if len(enc.Location) != 1 || enc.Location[0] != "inner" {
		t.Fatalf("Location = %v, want [inner]", enc.Location)
	}
	if !strings.HasPrefix(err.Error(), "inner: Member 'x' not found") {
		t.Fatalf("Error() = %q, want location prefix", err.Error())
	}
}

func TestRenderChoice(t *testing.T) {
	choice := typenode.NewChoice(typenode.Info{Name: "C"}, []typenode.Node{
		leaf("foo", typenode.KindInteger),
		leaf("bar", typenode.KindBoolean),
	}, false)

	if got, want := renderCompact(t, choice, value.NewChoice("foo", 5)), "foo : 5"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if got, want := renderCompact(t, choice, &value.Choice{Name: "bar", Value: false}), "bar : FALSE"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}

	_, err := Render(choice, value.NewChoice("baz", 1), " ", 0)
	enc, ok := errors.AsEncode(err)
	if !ok {
		t.Fatalf("Render() error = %v, want *errors.Encode", err)
	}
	if enc.Code != string(errors.ErrChoiceInvalid) {
		t.Fatalf("Code = %q, want %q", enc.Code, errors.ErrChoiceInvalid)
	}
	if want := "Expected choice 'bar' or 'foo', but got 'baz'."; enc.Message != want {
		t.Fatalf("Message = %q, want %q", enc.Message, want)
	}
}

func TestRenderArray(t *testing.T) {
	list := typenode.NewSetOf(typenode.Info{Name: "L"}, leaf("", typenode.KindInteger))
	if got, want := renderCompact(t, list, []any{1, 2, 3}), "{ 1, 2, 3 }"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if got, want := renderCompact(t, list, [2]int{4, 5}), "{ 4, 5 }"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if got, want := renderCompact(t, list, []int{}), "{ }"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if _, err := Render(list, 7, " ", 0); err == nil {
		t.Fatalf("Render(7) error = nil, want error")
	}
}

func TestRenderEnumerated(t *testing.T) {
	enum := typenode.NewEnumerated(typenode.Info{}, nil, false)
	if got := renderCompact(t, enum, "one"); got != "one" {
		t.Fatalf("Render() = %q, want one", got)
	}
}

func TestRenderUnsupported(t *testing.T) {
	tests := []struct {
		node  typenode.Node
		value any
		name  string
	}{
		{name: "set", node: typenode.NewSet(typenode.Info{}, nil, false), value: map[string]any{}},
		{name: "bmp", node: leaf("", typenode.KindBMPString), value: "x"},
		{name: "graphic", node: leaf("", typenode.KindGraphicString), value: "x"},
		{name: "teletex", node: leaf("", typenode.KindTeletexString), value: "x"},
		{name: "recursive", node: typenode.NewRecursive(typenode.Info{}, "Node", "M"), value: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node, tt.value, " ", 0)
			if !errors.IsUnsupported(err) {
				t.Fatalf("Render() error = %v, want unsupported", err)
			}
		})
	}
}

func TestRenderInvalidValues(t *testing.T) {
	tests := []struct {
		node  typenode.Node
		value any
		name  string
	}{
		{name: "boolean", node: leaf("", typenode.KindBoolean), value: 1},
		{name: "integer", node: leaf("", typenode.KindInteger), value: "1"},
		{name: "real", node: leaf("", typenode.KindReal), value: "1.0"},
		{name: "octets", node: leaf("", typenode.KindOctetString), value: "01"},
		{name: "bits", node: leaf("", typenode.KindBitString), value: []byte{1}},
		{name: "negative bits", node: leaf("", typenode.KindBitString), value: value.NewBitString(nil, -1)},
		{name: "bits past bytes", node: leaf("", typenode.KindBitString), value: value.NewBitString([]byte{0x88}, 12)},
		{name: "bits without bytes", node: leaf("", typenode.KindBitString), value: value.NewBitString(nil, 1)},
		{name: "string", node: leaf("", typenode.KindIA5String), value: 1},
		{name: "time", node: leaf("", typenode.KindUTCTime), value: "180304050607Z"},
		{name: "sequence", node: typenode.NewSequence(typenode.Info{}, nil, false), value: []any{}},
		{name: "choice", node: typenode.NewChoice(typenode.Info{}, nil, false), value: "foo"},
		{name: "enumerated", node: typenode.NewEnumerated(typenode.Info{}, nil, false), value: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node, tt.value, " ", 0)
			enc, ok := errors.AsEncode(err)
			if !ok {
				t.Fatalf("Render() error = %v, want *errors.Encode", err)
			}
			if enc.Code != string(errors.ErrValueInvalid) {
				t.Fatalf("Code = %q, want %q", enc.Code, errors.ErrValueInvalid)
			}
		})
	}
}

func TestFormatOr(t *testing.T) {
	tests := []struct {
		want  string
		items []string
	}{
		{items: nil, want: "nothing"},
		{items: []string{"a"}, want: "'a'"},
		{items: []string{"a", "b"}, want: "'a' or 'b'"},
		{items: []string{"a", "b", "c"}, want: "'a', 'b' or 'c'"},
	}
	for _, tt := range tests {
		if got := formatOr(tt.items); got != tt.want {
			t.Fatalf("formatOr(%v) = %q, want %q", tt.items, got, tt.want)
		}
	}
}
