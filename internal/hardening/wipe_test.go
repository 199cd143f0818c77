package hardening

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestWipeBytesZeroes(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	WipeBytes(buf)
	if !bytes.Equal(buf, make([]byte, len(buf))) {
		t.Fatalf("buffer not zeroed: %v", buf)
	}
	WipeBytes(nil)
}

func TestGuardWipesAllTrackedBuffers(t *testing.T) {
	g := NewGuard()
	a := g.Track([]byte{0xAA, 0xBB})
	b := g.Track([]byte{0xCC, 0xDD, 0xEE})
	g.Wipe()
	if a[0] != 0 || a[1] != 0 {
		t.Fatalf("first buffer not wiped: %v", a)
	}
	if b[0] != 0 || b[1] != 0 || b[2] != 0 {
		t.Fatalf("second buffer not wiped: %v", b)
	}
}

func TestGuardWipesOnErrorPath(t *testing.T) {
	secret := []byte{0xAA, 0xBB, 0xCC}
	err := func() error {
		g := NewGuard()
		defer g.Wipe()
		g.Track(secret)
		return errors.New("boom")
	}()
	if err == nil {
		t.Fatal("expected error from closure")
	}
	if !bytes.Equal(secret, make([]byte, 3)) {
		t.Fatalf("buffer must be wiped on the error path: %v", secret)
	}
}

func TestFloorSinceEnforcesLowerBound(t *testing.T) {
	start := time.Now()
	FloorSince(start, 20*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("floor not enforced, elapsed %v", elapsed)
	}
	// Zero floor must not sleep.
	start = time.Now()
	FloorSince(start, 0)
	if elapsed := time.Since(start); elapsed > 5*time.Millisecond {
		t.Fatalf("zero floor slept for %v", elapsed)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	if !Equal([]byte{1, 2}, []byte{1, 2}) {
		t.Fatal("equal buffers must compare equal")
	}
	if Equal([]byte{1, 2}, []byte{1, 3}) {
		t.Fatal("different buffers must not compare equal")
	}
}
