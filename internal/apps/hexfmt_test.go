package apps

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/pkg/models"
)

func TestHexFormatterLength(t *testing.T) {
	for _, n := range []uint32{16, 32, 64} {
		f, err := NewHex(n, false)
		if err != nil {
			t.Fatalf("formatter for %d bytes: %v", n, err)
		}
		out, err := f.Format(bytes.Repeat([]byte{0xAB}, int(n)))
		if err != nil {
			t.Fatalf("format failed: %v", err)
		}
		if out.Kind != models.OutputKindHex {
			t.Fatalf("unexpected kind %q", out.Kind)
		}
		if got := len(out.Hex.Text); got != int(2*n) {
			t.Fatalf("want %d hex chars, got %d", 2*n, got)
		}
	}
}

func TestHexFormatterCase(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xAB}, 16)

	lower, err := NewHex(16, false)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	out, err := lower.Format(entropy)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if out.Hex.Text != strings.Repeat("ab", 16) {
		t.Fatalf("unexpected lower-case text: %s", out.Hex.Text)
	}

	upper, err := NewHex(16, true)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	out, err = upper.Format(entropy)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if out.Hex.Text != strings.Repeat("AB", 16) {
		t.Fatalf("unexpected upper-case text: %s", out.Hex.Text)
	}
	if !out.Hex.Uppercase {
		t.Fatal("uppercase flag must be set")
	}
}

func TestHexFormatterBounds(t *testing.T) {
	for _, n := range []uint32{15, 65} {
		if _, err := NewHex(n, false); !errors.Is(err, derivation.ErrInvalidLength) {
			t.Fatalf("hex length %d must fail, got %v", n, err)
		}
	}
	f, err := NewHex(32, false)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	if _, err := f.Format(make([]byte, 16)); !errors.Is(err, ErrUnsupportedLength) {
		t.Fatalf("entropy length mismatch must fail, got %v", err)
	}
}
