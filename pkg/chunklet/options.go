package chunklet

import (
	"fmt"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// Mode selects which size constraints the grouper enforces.
type Mode string

const (
	// ModeSentence bounds chunks by sentence count only.
	ModeSentence Mode = "sentence"
	// ModeToken bounds chunks by token count only.
	ModeToken Mode = "token"
	// ModeHybrid enforces both bounds as a conjunction: whichever limit
	// is reached first forces the chunk boundary.
	ModeHybrid Mode = "hybrid"
)

// Constraint bounds.
const (
	// MinMaxTokens is the smallest accepted token limit. Anything lower
	// produces chunks too small to carry context.
	MinMaxTokens = 10
	// MaxOverlapPercent caps overlap so consecutive chunks always make
	// forward progress.
	MaxOverlapPercent = 75
)

// Constraints is the per-invocation constraint set. At least one of
// MaxSentences/MaxTokens must be set according to Mode; values outside
// their documented ranges are validation faults, never runtime clamps.
type Constraints struct {
	Mode         Mode
	Language     string // Language tag, "" or "auto" for the default splitter
	MaxSentences int    // Required >= 1 in sentence and hybrid modes
	MaxTokens    int    // Required >= MinMaxTokens in token and hybrid modes
	OverlapPct   int    // 0..MaxOverlapPercent, share of the active limit carried over
	Offset       int    // Sentences to skip before grouping starts
	Strict       bool   // Oversized irreducible clause is a fault instead of a flagged chunk
}

// Validate checks the whole constraint set up front; grouping never
// starts on an invalid set. hasCounter reports whether a token counter is
// available for token-based modes.
func (c Constraints) Validate(hasCounter bool) error {
	switch c.Mode {
	case ModeSentence:
		if c.MaxSentences < 1 {
			return fmt.Errorf("%w: max_sentences must be >= 1, got %d",
				types.ErrInvalidConstraint, c.MaxSentences)
		}
	case ModeToken:
		if c.MaxTokens < MinMaxTokens {
			return fmt.Errorf("%w: max_tokens must be >= %d, got %d",
				types.ErrInvalidConstraint, MinMaxTokens, c.MaxTokens)
		}
	case ModeHybrid:
		if c.MaxSentences < 1 {
			return fmt.Errorf("%w: max_sentences must be >= 1, got %d",
				types.ErrInvalidConstraint, c.MaxSentences)
		}
		if c.MaxTokens < MinMaxTokens {
			return fmt.Errorf("%w: max_tokens must be >= %d, got %d",
				types.ErrInvalidConstraint, MinMaxTokens, c.MaxTokens)
		}
	default:
		return fmt.Errorf("%w: %q", types.ErrInvalidMode, c.Mode)
	}

	if c.OverlapPct < 0 || c.OverlapPct > MaxOverlapPercent {
		return fmt.Errorf("%w: overlap_percent must be between 0 and %d, got %d",
			types.ErrInvalidConstraint, MaxOverlapPercent, c.OverlapPct)
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d",
			types.ErrInvalidConstraint, c.Offset)
	}

	if c.usesTokens() && !hasCounter {
		return types.ErrMissingTokenCounter
	}
	return nil
}

// usesTokens reports whether the mode needs a token counter.
func (c Constraints) usesTokens() bool {
	return c.Mode == ModeToken || c.Mode == ModeHybrid
}

// usesSentences reports whether the mode enforces the sentence limit.
func (c Constraints) usesSentences() bool {
	return c.Mode == ModeSentence || c.Mode == ModeHybrid
}
