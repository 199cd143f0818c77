package apps

import (
	"encoding/hex"
	"fmt"
	"strings"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/pkg/models"
)

type HexFormatter struct {
	numBytes int
	upper    bool
}

func NewHex(numBytes uint32, upper bool) (*HexFormatter, error) {
	if numBytes < derivation.MinHexBytes || numBytes > derivation.MaxHexBytes {
		return nil, fmt.Errorf("%w: %d hex bytes", derivation.ErrInvalidLength, numBytes)
	}
	return &HexFormatter{numBytes: int(numBytes), upper: upper}, nil
}

func (f *HexFormatter) RequiredBytes() int {
	return f.numBytes
}

func (f *HexFormatter) Format(entropy []byte) (models.ApplicationOutput, error) {
	if len(entropy) != f.numBytes {
		return models.ApplicationOutput{}, fmt.Errorf("%w: %d bytes, want %d", ErrUnsupportedLength, len(entropy), f.numBytes)
	}
	text := hex.EncodeToString(entropy)
	if f.upper {
		text = strings.ToUpper(text)
	}
	return models.ApplicationOutput{
		Kind: models.OutputKindHex,
		Hex:  &models.HexOutput{Text: text, Uppercase: f.upper},
	}, nil
}
