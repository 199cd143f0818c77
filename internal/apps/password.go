package apps

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/internal/hardening"
	"entropyd/go-core/pkg/models"
)

// passwordDomain separates the password expansion stream from every other
// HKDF use of the same entropy.
const passwordDomain = "entropyd/password/v1"

var alphabets = map[string]string{
	models.CharsetBase64:       "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/",
	models.CharsetBase85:       asciiRange('!', 85),
	models.CharsetAlphanumeric: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789",
	models.CharsetPrintable:    asciiRange('!', 94),
}

func asciiRange(start byte, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = start + byte(i)
	}
	return string(out)
}

// PasswordFormatter maps entropy onto a target charset. The 64-byte
// extraction is expanded with HKDF-SHA256 and consumed through per-byte
// rejection sampling, so every symbol is drawn exactly uniformly.
type PasswordFormatter struct {
	length  int
	charset string
}

func NewPassword(length uint32, charset string) (*PasswordFormatter, error) {
	if length < derivation.MinPasswordLen || length > derivation.MaxPasswordLen {
		return nil, fmt.Errorf("%w: %d characters outside [%d,%d]", ErrLengthOutOfRange, length, derivation.MinPasswordLen, derivation.MaxPasswordLen)
	}
	charset = models.NormalizeCharset(charset)
	if _, ok := alphabets[charset]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCharset, charset)
	}
	return &PasswordFormatter{length: int(length), charset: charset}, nil
}

func (f *PasswordFormatter) RequiredBytes() int {
	return derivation.MaxEntropyBytes
}

func (f *PasswordFormatter) Format(entropy []byte) (models.ApplicationOutput, error) {
	if len(entropy) != f.RequiredBytes() {
		return models.ApplicationOutput{}, fmt.Errorf("%w: %d entropy bytes, want %d", ErrUnsupportedLength, len(entropy), f.RequiredBytes())
	}
	alphabet := alphabets[f.charset]
	// Reject bytes at or above the largest multiple of len(alphabet), so
	// the modular reduction below carries zero bias.
	rejectAt := 256 - 256%len(alphabet)

	stream := hkdf.Expand(sha256.New, entropy, []byte(passwordDomain))
	buf := make([]byte, sha256.Size)
	defer hardening.WipeBytes(buf)

	out := make([]byte, 0, f.length)
	for len(out) < f.length {
		if _, err := io.ReadFull(stream, buf); err != nil {
			return models.ApplicationOutput{}, fmt.Errorf("password expansion failed: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAt {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == f.length {
				break
			}
		}
	}

	return models.ApplicationOutput{
		Kind:     models.OutputKindPassword,
		Password: &models.PasswordOutput{Text: string(out), Charset: f.charset},
	}, nil
}
