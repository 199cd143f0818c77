package hardening

import (
	"crypto/subtle"
	"time"
)

// FloorSince sleeps until at least floor has elapsed since start, so the
// observable latency of secret-dependent work has a fixed lower bound.
func FloorSince(start time.Time, floor time.Duration) {
	if floor <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed < floor {
		time.Sleep(floor - elapsed)
	}
}

// Equal compares two buffers in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
