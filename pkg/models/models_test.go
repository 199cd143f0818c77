package models

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	if got := NormalizeLanguage(""); got != LanguageEnglish {
		t.Fatalf("empty language must default to english, got %q", got)
	}
	if got := NormalizeLanguage(" Japanese "); got != LanguageJapanese {
		t.Fatalf("expected japanese, got %q", got)
	}
}

func TestNormalizeCharset(t *testing.T) {
	if got := NormalizeCharset(""); got != CharsetBase64 {
		t.Fatalf("empty charset must default to base64, got %q", got)
	}
	if got := NormalizeCharset(" PRINTABLE "); got != CharsetPrintable {
		t.Fatalf("expected printable, got %q", got)
	}
}
