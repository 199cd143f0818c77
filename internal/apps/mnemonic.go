package apps

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"

	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/pkg/models"
)

// wordlistByLanguage is the wordlist registry. bip39 keeps its active
// wordlist in package state, so every encode/decode holds wordlistMu.
var (
	wordlistMu         sync.Mutex
	wordlistByLanguage = map[string][]string{
		models.LanguageEnglish:            wordlists.English,
		models.LanguageJapanese:           wordlists.Japanese,
		models.LanguageKorean:             wordlists.Korean,
		models.LanguageSpanish:            wordlists.Spanish,
		models.LanguageChineseSimplified:  wordlists.ChineseSimplified,
		models.LanguageChineseTraditional: wordlists.ChineseTraditional,
		models.LanguageFrench:             wordlists.French,
		models.LanguageItalian:            wordlists.Italian,
	}
)

type MnemonicFormatter struct {
	words    int
	language string
}

func NewMnemonic(wordCount uint32, language string) (*MnemonicFormatter, error) {
	entropyBytes := derivation.MnemonicEntropyBytes(wordCount)
	if entropyBytes == 0 {
		return nil, fmt.Errorf("%w: %d words", ErrUnsupportedLength, wordCount)
	}
	language = models.NormalizeLanguage(language)
	if _, ok := wordlistByLanguage[language]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return &MnemonicFormatter{words: int(wordCount), language: language}, nil
}

func (f *MnemonicFormatter) RequiredBytes() int {
	return derivation.MnemonicEntropyBytes(uint32(f.words))
}

func (f *MnemonicFormatter) Format(entropy []byte) (models.ApplicationOutput, error) {
	if len(entropy) != f.RequiredBytes() {
		return models.ApplicationOutput{}, fmt.Errorf("%w: %d bytes for %d words", ErrUnsupportedLength, len(entropy), f.words)
	}

	wordlistMu.Lock()
	defer wordlistMu.Unlock()
	bip39.SetWordList(wordlistByLanguage[f.language])
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return models.ApplicationOutput{}, fmt.Errorf("mnemonic encoding failed: %w", err)
	}

	return models.ApplicationOutput{
		Kind: models.OutputKindMnemonic,
		Mnemonic: &models.MnemonicOutput{
			Phrase:   phrase,
			Words:    f.words,
			Language: f.language,
		},
	}, nil
}

// PhraseToEntropy reverses a phrase back to its entropy bytes. It exists
// for round-trip verification against the codec, not for derivation.
func PhraseToEntropy(phrase, language string) ([]byte, error) {
	language = models.NormalizeLanguage(language)
	list, ok := wordlistByLanguage[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	wordlistMu.Lock()
	defer wordlistMu.Unlock()
	bip39.SetWordList(list)
	return bip39.EntropyFromMnemonic(strings.TrimSpace(phrase))
}

// Languages lists the registered wordlist languages.
func Languages() []string {
	out := make([]string, 0, len(wordlistByLanguage))
	for lang := range wordlistByLanguage {
		out = append(out, lang)
	}
	return out
}
