package derivation

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"entropyd/go-core/internal/hardening"
)

// SeedSize is the only accepted master seed length.
const SeedSize = 64

var (
	ErrInvalidSeedLength = errors.New("master seed must be 64 bytes")

	// ErrDerivation marks an internal derivation failure. Path components
	// are fixed by the caller, so there is no retry-by-increment: the
	// failure is fatal for the whole call.
	ErrDerivation = errors.New("key derivation failed")
)

var masterHMACKey = []byte("Bitcoin seed")

// DerivedKey is a private-key/chain-code pair at some depth of the tree.
// It never crosses the package API of the service; owners must call Wipe
// before their scope returns.
type DerivedKey struct {
	Key       []byte // 32 bytes
	ChainCode []byte // 32 bytes
}

// Material returns key∥chaincode as a fresh 64-byte buffer.
func (d *DerivedKey) Material() []byte {
	out := make([]byte, 0, 64)
	out = append(out, d.Key...)
	return append(out, d.ChainCode...)
}

// KeyFromMaterial rebuilds a DerivedKey from a 64-byte key∥chaincode
// buffer, copying both halves.
func KeyFromMaterial(material []byte) (*DerivedKey, error) {
	if len(material) != 64 {
		return nil, fmt.Errorf("%w: material length %d", ErrDerivation, len(material))
	}
	return &DerivedKey{
		Key:       append([]byte(nil), material[:32]...),
		ChainCode: append([]byte(nil), material[32:]...),
	}, nil
}

func (d *DerivedKey) Wipe() {
	if d == nil {
		return
	}
	hardening.WipeBytes(d.Key)
	hardening.WipeBytes(d.ChainCode)
}

// DeriveChain walks the hardened components from a 64-byte seed down to
// the final node. Every intermediate node is wiped before the walk moves
// on; on error nothing sensitive survives.
func DeriveChain(seed []byte, components []uint32) (*DerivedKey, error) {
	node, err := masterFromSeed(seed)
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		child, err := DeriveStep(node, c)
		node.Wipe()
		if err != nil {
			return nil, err
		}
		node = child
	}
	return node, nil
}

// masterFromSeed builds the root node: HMAC-SHA512("Bitcoin seed", seed).
func masterFromSeed(seed []byte) (*DerivedKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeedLength, len(seed))
	}
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	digest := mac.Sum(nil)
	defer hardening.WipeBytes(digest)

	var scalar secp256k1.ModNScalar
	defer scalar.Zero()
	if overflow := scalar.SetByteSlice(digest[:32]); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: master key outside curve order", ErrDerivation)
	}
	return &DerivedKey{
		Key:       append([]byte(nil), digest[:32]...),
		ChainCode: append([]byte(nil), digest[32:]...),
	}, nil
}

// DeriveStep performs one hardened child derivation:
// HMAC-SHA512(key=cc, data=0x00 ∥ key ∥ ser32(index')) with the left half
// added to the parent key mod the curve order.
func DeriveStep(parent *DerivedKey, index uint32) (*DerivedKey, error) {
	if index > maxIndex {
		return nil, fmt.Errorf("%w: component %d exceeds 2^31-1", ErrInvalidPath, index)
	}

	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, parent.Key...)
	data = binary.BigEndian.AppendUint32(data, index|hardenedOffset)
	defer hardening.WipeBytes(data)

	mac := hmac.New(sha512.New, parent.ChainCode)
	mac.Write(data)
	digest := mac.Sum(nil)
	defer hardening.WipeBytes(digest)

	var il, key secp256k1.ModNScalar
	defer il.Zero()
	defer key.Zero()
	if overflow := il.SetByteSlice(digest[:32]); overflow {
		return nil, fmt.Errorf("%w: intermediate key outside curve order", ErrDerivation)
	}
	key.SetByteSlice(parent.Key)
	key.Add(&il)
	if key.IsZero() {
		return nil, fmt.Errorf("%w: derived zero key", ErrDerivation)
	}

	var childKey [32]byte
	key.PutBytes(&childKey)
	return &DerivedKey{
		Key:       childKey[:],
		ChainCode: append([]byte(nil), digest[32:]...),
	}, nil
}
