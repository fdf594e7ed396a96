package tokencount

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by NewFromEnv.
const (
	// EnvProvider selects the counter provider: tiktoken, words, heuristic.
	EnvProvider = "CHUNKLET_TOKEN_COUNTER"
	// EnvEncoding selects the tiktoken encoding (default cl100k_base).
	EnvEncoding = "CHUNKLET_TIKTOKEN_ENCODING"
)

// NewFromEnv creates a counter based on environment variables, defaulting
// to the words provider when nothing is configured. The words provider
// needs no vocabulary download, which keeps the default offline-safe.
func NewFromEnv() (*Counter, error) {
	provider := strings.ToLower(os.Getenv(EnvProvider))
	switch provider {
	case ProviderTiktoken:
		return NewTiktoken(os.Getenv(EnvEncoding), 0)
	case ProviderWords, "":
		return NewWords(0), nil
	case ProviderHeuristic:
		return NewHeuristic(0), nil
	default:
		return nil, fmt.Errorf("unknown token counter provider %q", provider)
	}
}
