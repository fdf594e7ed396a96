package types

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackError(t *testing.T) {
	cause := errors.New("boom")

	t.Run("short input kept whole", func(t *testing.T) {
		err := NewCallbackError("token counter", "short text", cause)
		assert.Equal(t, "short text", err.InputPrefix)
		assert.Contains(t, err.Error(), "token counter")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("long input truncated", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		err := NewCallbackError("sentence splitter", long, cause)
		assert.True(t, strings.HasSuffix(err.InputPrefix, "..."))
		assert.Less(t, len(err.InputPrefix), 80)
	})

	t.Run("truncation is rune safe", func(t *testing.T) {
		// 64 bytes falls inside a multi-byte rune for this input.
		long := strings.Repeat("é", 100)
		err := NewCallbackError("token counter", long, cause)
		assert.True(t, utf8.ValidString(err.InputPrefix))
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		err := NewCallbackError("token counter", "text", cause)
		assert.ErrorIs(t, err, cause)

		var cb *CallbackError
		require.ErrorAs(t, error(err), &cb)
		assert.Equal(t, "token counter", cb.Capability)
	})
}

func TestOversizedClauseError(t *testing.T) {
	err := &OversizedClauseError{
		TokenCount:   700,
		MaxTokens:    512,
		ClausePrefix: "a very long clause",
	}
	msg := err.Error()
	assert.Contains(t, msg, "700")
	assert.Contains(t, msg, "512")
	assert.Contains(t, msg, "a very long clause")
}
