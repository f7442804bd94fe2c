package gser

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/typenode"
	"github.com/jacoelho/asn1/value"
)

func renderPrimitive(k typenode.Kind, v any) (string, error) {
	switch k {
	case typenode.KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return "", invalidValue("a boolean", v)
		}
		if b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case typenode.KindInteger:
		return formatInteger(v)
	case typenode.KindReal:
		return formatReal(v)
	case typenode.KindNull:
		return "NULL", nil
	case typenode.KindObjectIdentifier:
		s, ok := v.(string)
		if !ok {
			return "", invalidValue("an object identifier string", v)
		}
		return s, nil
	case typenode.KindOctetString, typenode.KindAny:
		b, ok := v.([]byte)
		if !ok {
			return "", invalidValue("bytes", v)
		}
		return "'" + strings.ToUpper(hex.EncodeToString(b)) + "'H", nil
	case typenode.KindBitString:
		return formatBitString(v)
	case typenode.KindUTF8String, typenode.KindNumericString, typenode.KindPrintableString,
		typenode.KindIA5String, typenode.KindVisibleString, typenode.KindGeneralString,
		typenode.KindUniversalString:
		s, ok := v.(string)
		if !ok {
			return "", invalidValue("a string", v)
		}
		return `"` + s + `"`, nil
	case typenode.KindBMPString, typenode.KindGraphicString, typenode.KindTeletexString:
		return "", errors.NewUnsupported(k.String())
	case typenode.KindUTCTime:
		t, ok := v.(time.Time)
		if !ok {
			return "", invalidValue("a time", v)
		}
		return `"` + utcTime(t) + `"`, nil
	case typenode.KindGeneralizedTime:
		t, ok := v.(time.Time)
		if !ok {
			return "", invalidValue("a time", v)
		}
		return `"` + generalizedTime(t) + `"`, nil
	default:
		return "", fmt.Errorf("render: %s is not a primitive kind", k)
	}
}

func invalidValue(want string, got any) error {
	return errors.NewEncodef(errors.ErrValueInvalid, "Expected %s, but got %T.", want, got)
}

func formatInteger(v any) (string, error) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case *big.Int:
		if x == nil {
			return "", invalidValue("an integer", v)
		}
		return x.String(), nil
	case big.Int:
		return x.String(), nil
	case *uint256.Int:
		if x == nil {
			return "", invalidValue("an integer", v)
		}
		return x.ToBig().String(), nil
	case uint256.Int:
		return x.ToBig().String(), nil
	case json.Number:
		n, ok := new(big.Int).SetString(x.String(), 10)
		if !ok {
			return "", invalidValue("an integer", v)
		}
		return n.String(), nil
	default:
		return "", invalidValue("an integer", v)
	}
}

// formatReal renders finite non-zero values as the shortest round-trip decimal
// followed by "E0", keeping a trailing ".0" on integral floats.
func formatReal(v any) (string, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		text, err := formatInteger(v)
		if err != nil {
			return "", invalidValue("a real number", v)
		}
		if text == "0" {
			return "0", nil
		}
		return text + "E0", nil
	}

	switch {
	case math.IsInf(f, 1):
		return "PLUS-INFINITY", nil
	case math.IsInf(f, -1):
		return "MINUS-INFINITY", nil
	case math.IsNaN(f):
		return "", errors.NewEncode(errors.ErrRealNaN, "Cannot encode floating point number NaN.")
	case f == 0:
		return "0", nil
	}
	return shortestDecimal(f) + "E0", nil
}

// shortestDecimal uses positional notation for decimal exponents in [-4, 16)
// and scientific notation otherwise.
func shortestDecimal(f float64) string {
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

// formatBitString emits exactly Length binary digits taken from the most
// significant end of the bytes, keeping leading zero bits.
func formatBitString(v any) (string, error) {
	var bits value.BitString
	switch x := v.(type) {
	case value.BitString:
		bits = x
	case *value.BitString:
		if x == nil {
			return "", invalidValue("a bit string", v)
		}
		bits = *x
	case bitfield.Bitlist:
		return formatBitlist(x), nil
	default:
		return "", invalidValue("a bit string", v)
	}
	if bits.Length < 0 {
		return "", errors.NewEncodef(errors.ErrValueInvalid, "Bit string length %d is negative.", bits.Length)
	}
	if bits.Length > len(bits.Bytes)*8 {
		return "", errors.NewEncodef(errors.ErrValueInvalid,
			"Bit string length %d exceeds the %d bits of its %d bytes.", bits.Length, len(bits.Bytes)*8, len(bits.Bytes))
	}
	n := bits.Length
	var b strings.Builder
	b.Grow(n + 3)
	b.WriteByte('\'')
	for i := range n {
		if bits.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteString("'B")
	return b.String(), nil
}

// formatBitlist emits the bits of a length-delimited bitlist in index order.
func formatBitlist(bits bitfield.Bitlist) string {
	n := bits.Len()
	var b strings.Builder
	b.Grow(int(n) + 3)
	b.WriteByte('\'')
	for i := range n {
		if bits.BitAt(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteString("'B")
	return b.String()
}

// utcTime formats YYMMDDhhmm[ss] plus the zone; seconds are omitted when zero.
func utcTime(t time.Time) string {
	s := t.Format("0601021504")
	if t.Second() > 0 {
		s += t.Format("05")
	}
	return s + zone(t)
}

// generalizedTime formats YYYYMMDDhhmmss[.ffffff] plus the zone with trailing
// fractional zeros removed.
func generalizedTime(t time.Time) string {
	s := t.Format("20060102150405")
	if micro := t.Nanosecond() / 1000; micro > 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%06d", micro), "0")
	}
	return s + zone(t)
}

func zone(t time.Time) string {
	if _, offset := t.Zone(); offset == 0 {
		return "Z"
	}
	return t.Format("-0700")
}
