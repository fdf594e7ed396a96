package types

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validation faults. All are raised before any segmentation work begins;
// a failed validation never produces partial output.
var (
	// ErrMissingTokenCounter is returned when token or hybrid mode is
	// requested without a token counter. Remediation: supply a token
	// counter (see pkg/tokencount) when constructing the chunker.
	ErrMissingTokenCounter = errors.New("token counter required for token or hybrid mode: supply a token counter")

	// ErrInvalidMode is returned for an unrecognized grouping mode.
	ErrInvalidMode = errors.New("invalid grouping mode")

	// ErrInvalidConstraint is the base error for out-of-range constraint
	// values; wrapped messages name the offending parameter.
	ErrInvalidConstraint = errors.New("invalid constraint")
)

// callbackPrefixLen bounds how much of the offending input a CallbackError
// retains. Enough to identify the text without keeping it alive.
const callbackPrefixLen = 64

// CallbackError wraps a failure raised by an injected capability (token
// counter or sentence splitter). It carries a prefix of the offending
// input and the underlying cause. Callback faults are never retried.
type CallbackError struct {
	Capability  string // "token counter" or "sentence splitter"
	InputPrefix string // Truncated input that triggered the failure
	Cause       error
}

// NewCallbackError builds a CallbackError, truncating input to a short
// rune-safe prefix.
func NewCallbackError(capability, input string, cause error) *CallbackError {
	prefix := input
	if len(prefix) > callbackPrefixLen {
		prefix = prefix[:callbackPrefixLen]
		for !utf8.ValidString(prefix) && len(prefix) > 0 {
			prefix = prefix[:len(prefix)-1]
		}
		prefix += "..."
	}
	return &CallbackError{Capability: capability, InputPrefix: prefix, Cause: cause}
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s failed on input %q: %v", e.Capability, e.InputPrefix, e.Cause)
}

func (e *CallbackError) Unwrap() error {
	return e.Cause
}

// OversizedClauseError is the strict-mode fault raised when a single
// clause exceeds the token limit and therefore cannot be made to fit any
// chunk. In lenient operation the clause is emitted as its own chunk
// instead, flagged via ChunkMetadata.Oversized.
type OversizedClauseError struct {
	TokenCount   int
	MaxTokens    int
	ClausePrefix string
}

func (e *OversizedClauseError) Error() string {
	return fmt.Sprintf("clause of %d tokens exceeds max_tokens=%d: %q",
		e.TokenCount, e.MaxTokens, e.ClausePrefix)
}
