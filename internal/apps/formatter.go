// Package apps turns raw derived entropy into the application outputs:
// mnemonic phrases, hex strings and passwords. Formatters are pure over
// the entropy they are handed; they never pull additional entropy, so the
// orchestrator extracts RequiredBytes up front.
package apps

import (
	"errors"
	"fmt"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/pkg/models"
)

var (
	ErrUnsupportedLength = errors.New("unsupported entropy length")
	ErrInvalidCharset    = errors.New("unknown password charset")
	ErrLengthOutOfRange  = errors.New("password length out of range")
	ErrUnknownLanguage   = errors.New("unknown mnemonic language")
)

type Options struct {
	Language string
	Charset  string
	UpperHex bool
}

type Formatter interface {
	// RequiredBytes is the extraction size the orchestrator must request.
	RequiredBytes() int
	Format(entropy []byte) (models.ApplicationOutput, error)
}

// ForPath selects the formatter for a validated path. Dispatch is closed
// over the three registered applications; new outputs are added here, not
// through an open hierarchy.
func ForPath(path derivation.Path, opts Options) (Formatter, error) {
	switch path.Application {
	case derivation.AppMnemonic:
		return NewMnemonic(path.LengthParam, opts.Language)
	case derivation.AppHex:
		return NewHex(path.LengthParam, opts.UpperHex)
	case derivation.AppPassword:
		return NewPassword(path.LengthParam, opts.Charset)
	default:
		return nil, fmt.Errorf("%w: application %d has no formatter", derivation.ErrInvalidPath, path.Application)
	}
}
