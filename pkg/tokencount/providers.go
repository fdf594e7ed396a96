package tokencount

import (
	"fmt"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// Provider names accepted by New and NewFromEnv.
const (
	ProviderTiktoken  = "tiktoken"
	ProviderWords     = "words"
	ProviderHeuristic = "heuristic"
)

// DefaultEncoding is the tiktoken encoding used when none is specified.
const DefaultEncoding = "cl100k_base"

// NewTiktoken creates a counter backed by a BPE tokenizer. Loading an
// encoding is expensive; the returned counter reuses it for every call.
func NewTiktoken(encoding string, cacheSize int) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %q: %w", encoding, err)
	}
	fn := func(text string) (int, error) {
		return len(enc.Encode(text, nil, nil)), nil
	}
	return New(ProviderTiktoken, fn, cacheSize)
}

// NewWords creates a counter that counts unicode words and punctuation
// marks. This approximates GPT-style tokenization reasonably well for
// plain prose without the cost of a BPE vocabulary.
func NewWords(cacheSize int) *Counter {
	c, _ := New(ProviderWords, countWords, cacheSize)
	return c
}

// NewHeuristic creates a counter using the bytes/4 estimate.
func NewHeuristic(cacheSize int) *Counter {
	c, _ := New(ProviderHeuristic, func(text string) (int, error) {
		return len(text) / 4, nil
	}, cacheSize)
	return c
}

// countWords counts whitespace-delimited words plus standalone
// punctuation runes.
func countWords(text string) (int, error) {
	tokens := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if inWord {
				tokens++
				inWord = false
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			if inWord {
				tokens++
				inWord = false
			}
			tokens++
		default:
			inWord = true
		}
	}
	if inWord {
		tokens++
	}
	return tokens, nil
}
