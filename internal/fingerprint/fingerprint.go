// Package fingerprint produces one-way identifiers for master seeds. The
// fingerprint is usable for cache lookup and logging but cannot be
// reversed into seed material.
package fingerprint

import (
	"hash"
	"sync"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/sha3"
)

const seedDomain = "entropyd/seed-fingerprint/v1"

// pool is a freelist of SHA3-256 hash objects.
var pool = sync.Pool{
	New: func() any { return sha3.New256() },
}

// Sum256 hashes data with a pooled SHA3-256 instance.
func Sum256(data []byte) [32]byte {
	h := pool.Get().(hash.Hash)
	h.Reset()
	h.Write(data)
	var out [32]byte
	h.Sum(out[:0])
	pool.Put(h)
	return out
}

// Seed renders the seed fingerprint as "sfp1" + base58. Domain separation
// keeps the digest distinct from any other SHA3 use of the same bytes.
func Seed(seed []byte) string {
	buf := make([]byte, 0, len(seedDomain)+len(seed))
	buf = append(buf, seedDomain...)
	buf = append(buf, seed...)
	sum := Sum256(buf)
	for i := range buf {
		buf[i] = 0
	}
	return "sfp1" + base58.Encode(sum[:])
}
