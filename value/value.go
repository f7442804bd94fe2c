// Package value defines the Go shapes of ASN.1 values that have no natural
// builtin representation.
package value

// BitString is a BIT STRING value of Length bits stored most significant bit
// first in Bytes.
type BitString struct {
	Bytes  []byte
	Length int
}

// NewBitString returns a BIT STRING of length bits backed by b.
func NewBitString(b []byte, length int) BitString {
	return BitString{Bytes: b, Length: length}
}

// Bit returns the bit at index i, counting from the most significant bit of
// the first byte.
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= len(b.Bytes)*8 {
		return false
	}
	return b.Bytes[i/8]&(0x80>>(uint(i)%8)) != 0
}

// Choice is a CHOICE value selecting alternative Name.
type Choice struct {
	Value any
	Name  string
}

// NewChoice returns a CHOICE value selecting name.
func NewChoice(name string, v any) Choice {
	return Choice{Name: name, Value: v}
}
