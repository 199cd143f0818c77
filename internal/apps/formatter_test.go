package apps

import (
	"errors"
	"testing"

	"entropyd/go-core/internal/derivation"
)

func TestForPathDispatch(t *testing.T) {
	cases := []struct {
		app    uint32
		length uint32
	}{
		{derivation.AppMnemonic, 12},
		{derivation.AppHex, 32},
		{derivation.AppPassword, 24},
	}
	for _, tc := range cases {
		path, err := derivation.NewPath(tc.app, tc.length, 0)
		if err != nil {
			t.Fatalf("path for app %d: %v", tc.app, err)
		}
		f, err := ForPath(path, Options{})
		if err != nil {
			t.Fatalf("dispatch for app %d: %v", tc.app, err)
		}
		switch f.(type) {
		case *MnemonicFormatter:
			if tc.app != derivation.AppMnemonic {
				t.Fatalf("app %d dispatched to mnemonic", tc.app)
			}
		case *HexFormatter:
			if tc.app != derivation.AppHex {
				t.Fatalf("app %d dispatched to hex", tc.app)
			}
		case *PasswordFormatter:
			if tc.app != derivation.AppPassword {
				t.Fatalf("app %d dispatched to password", tc.app)
			}
		default:
			t.Fatalf("unexpected formatter %T", f)
		}
	}
}

func TestForPathRejectsUnknownApplication(t *testing.T) {
	// Paths are normally validated at construction; a hand-built value
	// must still be rejected at dispatch.
	path := derivation.Path{Application: 999, LengthParam: 12}
	if _, err := ForPath(path, Options{}); !errors.Is(err, derivation.ErrInvalidPath) {
		t.Fatalf("unknown application must fail dispatch, got %v", err)
	}
}
