package derivation

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrInvalidPath = errors.New("invalid derivation path")

// Purpose is the fixed first path component shared by every derivation.
const Purpose uint32 = 83696968

const (
	// AppMnemonic and AppHex are the officially assigned application codes.
	AppMnemonic uint32 = 39
	AppHex      uint32 = 128169

	// AppPassword is a vendor extension. The official registry assigns
	// 2, 32, 39, 89101 and 128169; 80221985 sits in unassigned space and
	// is reserved here as this project's namespace for password output.
	AppPassword uint32 = 80221985
)

const (
	hardenedOffset uint32 = 0x80000000
	maxIndex       uint32 = hardenedOffset - 1
)

const (
	MinHexBytes = 16
	MaxHexBytes = 64

	MinPasswordLen = 10
	MaxPasswordLen = 128
)

// mnemonicEntropyBytes maps a requested word count to the entropy length
// that produces it under BIP-39 checksumming.
var mnemonicEntropyBytes = map[uint32]int{
	12: 16,
	15: 20,
	18: 24,
	21: 28,
	24: 32,
}

// Path is a validated hardened derivation path
// m/purpose'/application'/lengthParam'/index'.
type Path struct {
	Application uint32
	LengthParam uint32
	Index       uint32
}

// NewPath validates every component before any key material is touched.
func NewPath(application, lengthParam, index uint32) (Path, error) {
	if index > maxIndex {
		return Path{}, fmt.Errorf("%w: index %d exceeds 2^31-1", ErrInvalidPath, index)
	}
	switch application {
	case AppMnemonic:
		if _, ok := mnemonicEntropyBytes[lengthParam]; !ok {
			return Path{}, fmt.Errorf("%w: word count %d not in {12,15,18,21,24}", ErrInvalidPath, lengthParam)
		}
	case AppHex:
		if lengthParam < MinHexBytes || lengthParam > MaxHexBytes {
			return Path{}, fmt.Errorf("%w: hex byte length %d outside [%d,%d]", ErrInvalidPath, lengthParam, MinHexBytes, MaxHexBytes)
		}
	case AppPassword:
		if lengthParam < MinPasswordLen || lengthParam > MaxPasswordLen {
			return Path{}, fmt.Errorf("%w: password length %d outside [%d,%d]", ErrInvalidPath, lengthParam, MinPasswordLen, MaxPasswordLen)
		}
	default:
		return Path{}, fmt.Errorf("%w: unknown application %d", ErrInvalidPath, application)
	}
	return Path{Application: application, LengthParam: lengthParam, Index: index}, nil
}

// MnemonicEntropyBytes reports the entropy length for a validated word
// count, or 0 when the count is unsupported.
func MnemonicEntropyBytes(words uint32) int {
	return mnemonicEntropyBytes[words]
}

// Components returns the raw (pre-hardening) component values in tree order.
func (p Path) Components() []uint32 {
	return []uint32{Purpose, p.Application, p.LengthParam, p.Index}
}

// Prefix returns the components shared by all indices under the same
// application and length. This is the cacheable portion of the walk.
func (p Path) Prefix() []uint32 {
	return []uint32{Purpose, p.Application, p.LengthParam}
}

// Encode produces the canonical serialization: each component hardened and
// written as a big-endian uint32. The same bytes order the key-tree walk
// and act as the HMAC message during extraction.
func (p Path) Encode() []byte {
	return EncodeComponents(p.Components())
}

// EncodePrefix serializes only the cacheable prefix components.
func (p Path) EncodePrefix() []byte {
	return EncodeComponents(p.Prefix())
}

func EncodeComponents(components []uint32) []byte {
	out := make([]byte, 0, 4*len(components))
	for _, c := range components {
		out = binary.BigEndian.AppendUint32(out, c|hardenedOffset)
	}
	return out
}

func (p Path) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d'", Purpose, p.Application, p.LengthParam, p.Index)
}
