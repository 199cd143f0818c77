package derivation

import (
	"crypto/hmac"
	"crypto/sha512"
	"errors"
	"fmt"
)

var ErrInvalidLength = errors.New("invalid entropy length")

const (
	MinEntropyBytes = 16
	MaxEntropyBytes = sha512.Size
)

// ExtractEntropy produces the raw application entropy for a leaf node:
// HMAC-SHA512 keyed by the derived private key over the canonical path
// serialization, truncated to numBytes. Identical (seed, path, numBytes)
// inputs always yield identical bytes.
func ExtractEntropy(leaf *DerivedKey, path Path, numBytes int) ([]byte, error) {
	if numBytes < MinEntropyBytes || numBytes > MaxEntropyBytes {
		return nil, fmt.Errorf("%w: %d bytes outside [%d,%d]", ErrInvalidLength, numBytes, MinEntropyBytes, MaxEntropyBytes)
	}
	mac := hmac.New(sha512.New, leaf.Key)
	mac.Write(path.Encode())
	digest := mac.Sum(nil)
	out := append([]byte(nil), digest[:numBytes]...)
	for i := range digest {
		digest[i] = 0
	}
	return out, nil
}
