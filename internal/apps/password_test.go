package apps

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"entropyd/go-core/pkg/models"
)

const passwordEntropyFixture = "e3f37c293c09857afdb364cc7ad91bf6f66db495272abd14ff966258f72571855e57fe1944d263a8cbb27351d4d90078ae6c6264232d4b0f8fbb3bcfb7c45ee9"

func passwordEntropy(t *testing.T) []byte {
	t.Helper()
	raw, err := hex.DecodeString(passwordEntropyFixture)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func TestPasswordVectors(t *testing.T) {
	cases := []struct {
		charset string
		length  uint32
		want    string
	}{
		{models.CharsetBase64, 24, "Ce7ts1zUXhNXaDTUymVEmlVP"},
		{models.CharsetAlphanumeric, 10, "Ik9zw15WZh"},
		{models.CharsetBase85, 32, "9UGd#Vju#BncfdJ`ir!%]qL[aTs)',@G"},
	}
	raw := passwordEntropy(t)
	for _, tc := range cases {
		f, err := NewPassword(tc.length, tc.charset)
		if err != nil {
			t.Fatalf("%s formatter: %v", tc.charset, err)
		}
		out, err := f.Format(raw)
		if err != nil {
			t.Fatalf("%s format failed: %v", tc.charset, err)
		}
		if out.Password.Text != tc.want {
			t.Fatalf("%s: want %q, got %q", tc.charset, tc.want, out.Password.Text)
		}
	}
}

func TestPasswordLengthAndMembership(t *testing.T) {
	raw := passwordEntropy(t)
	for _, charset := range []string{models.CharsetBase64, models.CharsetBase85, models.CharsetAlphanumeric, models.CharsetPrintable} {
		for _, length := range []uint32{10, 64, 128} {
			f, err := NewPassword(length, charset)
			if err != nil {
				t.Fatalf("%s/%d formatter: %v", charset, length, err)
			}
			out, err := f.Format(raw)
			if err != nil {
				t.Fatalf("%s/%d format failed: %v", charset, length, err)
			}
			if got := len(out.Password.Text); got != int(length) {
				t.Fatalf("%s: want length %d, got %d", charset, length, got)
			}
			for _, r := range out.Password.Text {
				if !strings.ContainsRune(alphabets[charset], r) {
					t.Fatalf("%s: symbol %q outside charset", charset, r)
				}
			}
		}
	}
}

func TestPasswordDeterministic(t *testing.T) {
	raw := passwordEntropy(t)
	f, err := NewPassword(64, models.CharsetPrintable)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	first, err := f.Format(raw)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	second, err := f.Format(raw)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if first.Password.Text != second.Password.Text {
		t.Fatal("password output must be deterministic")
	}
}

func TestPasswordParameterErrors(t *testing.T) {
	if _, err := NewPassword(24, "rot13"); !errors.Is(err, ErrInvalidCharset) {
		t.Fatalf("unknown charset must fail, got %v", err)
	}
	if _, err := NewPassword(9, models.CharsetBase64); !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("length 9 must fail, got %v", err)
	}
	if _, err := NewPassword(129, models.CharsetBase64); !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("length 129 must fail, got %v", err)
	}

	f, err := NewPassword(24, models.CharsetBase64)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	if _, err := f.Format(make([]byte, 32)); !errors.Is(err, ErrUnsupportedLength) {
		t.Fatalf("short entropy must fail, got %v", err)
	}
}

func TestAlphabetShapes(t *testing.T) {
	sizes := map[string]int{
		models.CharsetBase64:       64,
		models.CharsetBase85:       85,
		models.CharsetAlphanumeric: 62,
		models.CharsetPrintable:    94,
	}
	for charset, want := range sizes {
		alphabet := alphabets[charset]
		if len(alphabet) != want {
			t.Fatalf("%s: want %d symbols, got %d", charset, want, len(alphabet))
		}
		seen := map[byte]struct{}{}
		for i := 0; i < len(alphabet); i++ {
			if _, dup := seen[alphabet[i]]; dup {
				t.Fatalf("%s: duplicate symbol %q", charset, alphabet[i])
			}
			seen[alphabet[i]] = struct{}{}
		}
	}
}
