package typenode

// Kind is the closed set of ASN.1 constructs a node can represent.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSequence
	KindSequenceOf
	KindSet
	KindSetOf
	KindChoice
	KindInteger
	KindReal
	KindEnumerated
	KindBoolean
	KindObjectIdentifier
	KindOctetString
	KindBitString
	KindNull
	KindAny
	KindUTF8String
	KindNumericString
	KindPrintableString
	KindIA5String
	KindVisibleString
	KindGeneralString
	KindBMPString
	KindGraphicString
	KindUniversalString
	KindTeletexString
	KindUTCTime
	KindGeneralizedTime
	KindRecursive
)

type kindInfo struct {
	keyword string
	label   string
}

var kinds = [...]kindInfo{
	KindInvalid:          {"", "Invalid"},
	KindSequence:         {"SEQUENCE", "Sequence"},
	KindSequenceOf:       {"SEQUENCE OF", "SequenceOf"},
	KindSet:              {"SET", "Set"},
	KindSetOf:            {"SET OF", "SetOf"},
	KindChoice:           {"CHOICE", "Choice"},
	KindInteger:          {"INTEGER", "Integer"},
	KindReal:             {"REAL", "Real"},
	KindEnumerated:       {"ENUMERATED", "Enumerated"},
	KindBoolean:          {"BOOLEAN", "Boolean"},
	KindObjectIdentifier: {"OBJECT IDENTIFIER", "ObjectIdentifier"},
	KindOctetString:      {"OCTET STRING", "OctetString"},
	KindBitString:        {"BIT STRING", "BitString"},
	KindNull:             {"NULL", "Null"},
	KindAny:              {"ANY", "Any"},
	KindUTF8String:       {"UTF8String", "UTF8String"},
	KindNumericString:    {"NumericString", "NumericString"},
	KindPrintableString:  {"PrintableString", "PrintableString"},
	KindIA5String:        {"IA5String", "IA5String"},
	KindVisibleString:    {"VisibleString", "VisibleString"},
	KindGeneralString:    {"GeneralString", "GeneralString"},
	KindBMPString:        {"BMPString", "BMPString"},
	KindGraphicString:    {"GraphicString", "GraphicString"},
	KindUniversalString:  {"UniversalString", "UniversalString"},
	KindTeletexString:    {"TeletexString", "TeletexString"},
	KindUTCTime:          {"UTCTime", "UTCTime"},
	KindGeneralizedTime:  {"GeneralizedTime", "GeneralizedTime"},
	KindRecursive:        {"RECURSIVE", "Recursive"},
}

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds)+1)
	for k := KindSequence; k < KindRecursive; k++ {
		m[kinds[k].keyword] = k
	}
	m["ANY DEFINED BY"] = KindAny
	return m
}()

// ParseKind maps a descriptor type keyword to its kind. Names outside the
// builtin vocabulary, including user-defined type names, report false.
func ParseKind(keyword string) (Kind, bool) {
	k, ok := keywords[keyword]
	return k, ok
}

// String returns the ASN.1 keyword of the kind.
func (k Kind) String() string {
	if int(k) >= len(kinds) {
		return "Kind(?)"
	}
	return kinds[k].keyword
}

// Label returns the node label used by String on nodes of this kind.
func (k Kind) Label() string {
	if int(k) >= len(kinds) {
		return "Invalid"
	}
	return kinds[k].label
}

// IsPrimitive reports whether nodes of this kind hold no children.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindInvalid, KindSequence, KindSequenceOf, KindSet, KindSetOf, KindChoice, KindEnumerated, KindRecursive:
		return false
	default:
		return int(k) < len(kinds)
	}
}
