package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// assertTiling checks that sentences cover the input exactly, in order,
// with recoverable offsets.
func assertTiling(t *testing.T, text string, sentences []types.Sentence) {
	t.Helper()
	var sb strings.Builder
	pos := 0
	for i, s := range sentences {
		assert.Equal(t, pos, s.Start, "sentence %d start", i)
		assert.Equal(t, s.Text, text[s.Start:s.End], "sentence %d span", i)
		assert.Equal(t, i, s.Index)
		sb.WriteString(s.Text)
		pos = s.End
	}
	assert.Equal(t, text, sb.String(), "sentences must reconstruct the input")
}

func TestDefaultSplitBasic(t *testing.T) {
	text := "The fox ran fast. The hound gave chase! Did either of them tire?"
	sentences, err := DefaultSplit(text, "en")
	require.NoError(t, err)
	require.Len(t, sentences, 3)
	assertTiling(t, text, sentences)

	assert.Contains(t, sentences[0].Text, "fox")
	assert.Contains(t, sentences[1].Text, "hound")
	assert.Contains(t, sentences[2].Text, "tire")
}

func TestDefaultSplitEmpty(t *testing.T) {
	sentences, err := DefaultSplit("", "en")
	require.NoError(t, err)
	assert.Empty(t, sentences)
}

func TestDefaultSplitSingleSentence(t *testing.T) {
	text := "No terminal punctuation at all"
	sentences, err := DefaultSplit(text, "")
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Equal(t, text, sentences[0].Text)
}

func TestDefaultSplitAbbreviations(t *testing.T) {
	t.Run("known abbreviations do not break", func(t *testing.T) {
		text := "Dr. Smith arrived early. Mrs. Jones was already there."
		sentences, err := DefaultSplit(text, "en")
		require.NoError(t, err)
		require.Len(t, sentences, 2)
		assert.Contains(t, sentences[0].Text, "Dr. Smith")
		assert.Contains(t, sentences[1].Text, "Mrs. Jones")
	})

	t.Run("dotted forms match whole", func(t *testing.T) {
		text := "Many fruits ripen in summer, e.g. peaches and plums. Winter is different."
		sentences, err := DefaultSplit(text, "en")
		require.NoError(t, err)
		require.Len(t, sentences, 2)
	})

	t.Run("single letter initials", func(t *testing.T) {
		text := "J. Smith wrote the paper. K. Jones reviewed it."
		sentences, err := DefaultSplit(text, "en")
		require.NoError(t, err)
		require.Len(t, sentences, 2)
	})
}

func TestDefaultSplitTerminalClusters(t *testing.T) {
	text := "Wait... Really?! Yes."
	sentences, err := DefaultSplit(text, "en")
	require.NoError(t, err)
	require.Len(t, sentences, 3)
	assertTiling(t, text, sentences)
	assert.True(t, strings.HasSuffix(sentences[0].Text, "..."))
	assert.True(t, strings.HasSuffix(sentences[1].Text, "?!"))
}

func TestDefaultSplitBlankLine(t *testing.T) {
	text := "A heading without punctuation\n\nThe body starts here."
	sentences, err := DefaultSplit(text, "en")
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assertTiling(t, text, sentences)
}

func TestDefaultSplitLowercaseContinuation(t *testing.T) {
	// A dot followed by a lower-case word is not a sentence break.
	text := "The file lives in pkg. it was moved last year."
	sentences, err := DefaultSplit(text, "en")
	require.NoError(t, err)
	assert.Len(t, sentences, 1)
}

func TestDefaultSplitOpeningQuote(t *testing.T) {
	// An opening quote between the terminal cluster and the capital
	// does not hide the sentence boundary.
	text := `He left the room. "Stay here," she said.`
	sentences, err := DefaultSplit(text, "en")
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assertTiling(t, text, sentences)
}
