package hardening

import "crypto/rand"

// WipeBytes overwrites a sensitive buffer with random bytes and then
// zeros. If the random source is unavailable the zero pass still runs.
func WipeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = 0
	}
}

// Guard collects sensitive buffers acquired during one derivation call so
// a single deferred Wipe covers every exit path.
type Guard struct {
	bufs [][]byte
}

func NewGuard() *Guard {
	return &Guard{}
}

// Track registers a buffer and returns it unchanged.
func (g *Guard) Track(b []byte) []byte {
	if len(b) > 0 {
		g.bufs = append(g.bufs, b)
	}
	return b
}

func (g *Guard) Wipe() {
	for _, b := range g.bufs {
		WipeBytes(b)
	}
	g.bufs = nil
}
