// Package literal converts value assignment literals from a descriptor into
// the Go values accepted by the encoders.
package literal

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/typenode"
	"github.com/jacoelho/asn1/value"
)

// Convert maps raw, as decoded from JSON, to the value shape expected for n.
//
// Bit strings are written "0b..." or "0x..."; octet strings and ANY are
// written "0x...". Literals for constructed types and times are not
// supported.
func Convert(n typenode.Node, raw any) (any, error) {
	switch k := n.Kind(); k {
	case typenode.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, invalid(k, raw)
		}
		return b, nil
	case typenode.KindInteger:
		return integer(k, raw)
	case typenode.KindReal:
		return realNumber(k, raw)
	case typenode.KindNull:
		return nil, nil
	case typenode.KindBitString:
		return bitString(k, raw)
	case typenode.KindOctetString, typenode.KindAny:
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "0x") {
			return nil, invalid(k, raw)
		}
		b, _, err := hexDigits(s[2:])
		if err != nil {
			return nil, invalid(k, raw)
		}
		return b, nil
	case typenode.KindEnumerated, typenode.KindObjectIdentifier,
		typenode.KindUTF8String, typenode.KindNumericString, typenode.KindPrintableString,
		typenode.KindIA5String, typenode.KindVisibleString, typenode.KindGeneralString,
		typenode.KindUniversalString, typenode.KindBMPString, typenode.KindGraphicString,
		typenode.KindTeletexString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid(k, raw)
		}
		return s, nil
	default:
		return nil, errors.NewUnsupportedf(k.String(), "%s value literals are not yet implemented.", k)
	}
}

func invalid(k typenode.Kind, raw any) error {
	return errors.NewCompilef(errors.ErrDescriptorInvalid, "invalid %s literal %v", k, raw)
}

func integer(k typenode.Kind, raw any) (any, error) {
	switch x := raw.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		if n, ok := new(big.Int).SetString(x.String(), 10); ok {
			return n, nil
		}
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x == float64(int64(x)) {
			return int64(x), nil
		}
	}
	return nil, invalid(k, raw)
}

func realNumber(k typenode.Kind, raw any) (any, error) {
	switch x := raw.(type) {
	case json.Number:
		f, err := x.Float64()
		if err == nil {
			return f, nil
		}
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return nil, invalid(k, raw)
}

func bitString(k typenode.Kind, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalid(k, raw)
	}
	switch {
	case strings.HasPrefix(s, "0b"):
		b, n, err := binaryDigits(s[2:])
		if err != nil {
			return nil, invalid(k, raw)
		}
		return value.NewBitString(b, n), nil
	case strings.HasPrefix(s, "0x"):
		b, n, err := hexDigits(s[2:])
		if err != nil {
			return nil, invalid(k, raw)
		}
		return value.NewBitString(b, n), nil
	default:
		return nil, invalid(k, raw)
	}
}

// binaryDigits packs digits most significant bit first and returns the bit
// count.
func binaryDigits(digits string) ([]byte, int, error) {
	b := make([]byte, (len(digits)+7)/8)
	for i, c := range []byte(digits) {
		switch c {
		case '0':
		case '1':
			b[i/8] |= 0x80 >> (i % 8)
		default:
			return nil, 0, fmt.Errorf("invalid binary digit %q", c)
		}
	}
	return b, len(digits), nil
}

// hexDigits decodes digits, padding an odd count with a trailing zero nibble,
// and returns four bits per digit.
func hexDigits(digits string) ([]byte, int, error) {
	n := len(digits) * 4
	if len(digits)%2 == 1 {
		digits += "0"
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, 0, err
	}
	return b, n, nil
}
