package models

import "strings"

type OutputKind string

const (
	OutputKindMnemonic OutputKind = "mnemonic"
	OutputKindHex      OutputKind = "hex"
	OutputKindPassword OutputKind = "password"
)

const (
	LanguageEnglish            = "english"
	LanguageJapanese           = "japanese"
	LanguageKorean             = "korean"
	LanguageSpanish            = "spanish"
	LanguageChineseSimplified  = "chinese_simplified"
	LanguageChineseTraditional = "chinese_traditional"
	LanguageFrench             = "french"
	LanguageItalian            = "italian"
)

const (
	CharsetBase64       = "base64"
	CharsetBase85       = "base85"
	CharsetAlphanumeric = "alphanumeric"
	CharsetPrintable    = "printable"
)

type MnemonicOutput struct {
	Phrase   string `json:"phrase"`
	Words    int    `json:"words"`
	Language string `json:"language"`
}

type HexOutput struct {
	Text      string `json:"text"`
	Uppercase bool   `json:"uppercase"`
}

type PasswordOutput struct {
	Text    string `json:"text"`
	Charset string `json:"charset"`
}

// QualityReport carries the advisory entropy-quality score for an output.
// A low score never implies the derivation itself was wrong.
type QualityReport struct {
	Score    int      `json:"score"`
	Warnings []string `json:"warnings,omitempty"`
}

// ApplicationOutput is a closed tagged variant: exactly one of Mnemonic,
// Hex or Password is set, selected by Kind.
type ApplicationOutput struct {
	Kind     OutputKind      `json:"kind"`
	Mnemonic *MnemonicOutput `json:"mnemonic,omitempty"`
	Hex      *HexOutput      `json:"hex,omitempty"`
	Password *PasswordOutput `json:"password,omitempty"`
	Quality  *QualityReport  `json:"quality,omitempty"`
}

type OperationMetric struct {
	Count         int   `json:"count"`
	Errors        int   `json:"errors"`
	AvgLatencyUs  int64 `json:"avg_latency_us"`
	MaxLatencyUs  int64 `json:"max_latency_us"`
	LastLatencyUs int64 `json:"last_latency_us"`
}

type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
}

func NormalizeLanguage(raw string) string {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if lang == "" {
		return LanguageEnglish
	}
	return lang
}

func NormalizeCharset(raw string) string {
	charset := strings.ToLower(strings.TrimSpace(raw))
	if charset == "" {
		return CharsetBase64
	}
	return charset
}
