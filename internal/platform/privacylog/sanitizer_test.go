package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSanitizeArgsFingerprintsDisallowedIDs(t *testing.T) {
	args := SanitizeArgs(
		"path", "m/83696968'/39'/12'/0'",
		"fingerprint", "sfp1abc",
		"application", "mnemonic",
	)
	if len(args) != 6 {
		t.Fatalf("unexpected args length: %d", len(args))
	}
	if got := args[0]; got != "path_fp" {
		t.Fatalf("unexpected key: %v", got)
	}
	if got := args[1].(string); !strings.HasPrefix(got, "fp_") {
		t.Fatalf("unexpected fingerprint value: %q", got)
	}
	if got := args[4]; got != "application" {
		t.Fatalf("expected untouched key, got %v", got)
	}
}

func TestSanitizingHandlerRedactsSensitiveAndIDs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(WrapHandler(base))
	logger.Info("test", "path", "m/83696968'/39'/12'/0'", "seed_hex", "deadbeef", "status", "ok")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if _, ok := payload["path"]; ok {
		t.Fatal("path should not be present")
	}
	if _, ok := payload["path_fp"]; !ok {
		t.Fatal("path_fp should be present")
	}
	if got, _ := payload["seed_hex"].(string); got != redactedValue {
		t.Fatalf("expected redacted seed, got %q", got)
	}
}

func TestSanitizingHandlerRedactsKeyMaterialKeys(t *testing.T) {
	args := SanitizeArgs(
		"private_key", "00112233",
		"chain_code", "44556677",
		"entropy_len", 32,
	)
	if got := args[1]; got != redactedValue {
		t.Fatalf("expected redacted private key, got %v", got)
	}
	if got := args[3]; got != redactedValue {
		t.Fatalf("expected redacted chain code, got %v", got)
	}
	if got := args[5]; got != redactedValue {
		t.Fatalf("entropy_len must also redact (contains entropy), got %v", got)
	}
}

func TestSanitizingHandlerImplementsSlogHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected handler enabled for info")
	}
	rec := slog.NewRecord(time.Now().UTC(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(slog.String("cache_key", "sfp1abc/84fd1d48"))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "cache_key_fp") {
		t.Fatalf("expected sanitized cache_key key, got %s", buf.String())
	}
}
