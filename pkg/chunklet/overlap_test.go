package chunklet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// clauseRow builds a clause for overlap selection tests; offsets are
// irrelevant to selection.
func clauseRow(text string, sentence int) types.Clause {
	return types.Clause{Text: text, SentenceIndex: sentence}
}

func TestSelectOverlapDisabled(t *testing.T) {
	clauses := []types.Clause{clauseRow("One.", 0), clauseRow("Two.", 1)}
	cons := Constraints{Mode: ModeSentence, MaxSentences: 2, OverlapPct: 0}

	assert.Equal(t, len(clauses), selectOverlap(clauses, nil, cons))
}

func TestSelectOverlapEmptyChunk(t *testing.T) {
	cons := Constraints{Mode: ModeSentence, MaxSentences: 2, OverlapPct: 50}
	assert.Equal(t, 0, selectOverlap(nil, nil, cons))
}

func TestSelectOverlapTokenBudget(t *testing.T) {
	clauses := []types.Clause{
		clauseRow("Alpha part, ", 0),
		clauseRow("Beta part, ", 0),
		clauseRow("Gamma part.", 0),
	}
	tokens := []int{5, 5, 5}

	t.Run("budget admits trailing clauses", func(t *testing.T) {
		// 50% of 20 tokens = 10: the last two clauses fit.
		cons := Constraints{Mode: ModeToken, MaxTokens: 20, OverlapPct: 50}
		assert.Equal(t, 1, selectOverlap(clauses, tokens, cons))
	})

	t.Run("walk stops at the clause exceeding the budget", func(t *testing.T) {
		// 25% of 20 tokens = 5: only the final clause fits.
		cons := Constraints{Mode: ModeToken, MaxTokens: 20, OverlapPct: 25}
		assert.Equal(t, 2, selectOverlap(clauses, tokens, cons))
	})

	t.Run("tail clause over budget skips overlap", func(t *testing.T) {
		big := []int{5, 5, 50}
		cons := Constraints{Mode: ModeToken, MaxTokens: 20, OverlapPct: 25}
		assert.Equal(t, len(clauses), selectOverlap(clauses, big, cons))
	})

	t.Run("whole chunk never selected", func(t *testing.T) {
		// Budget big enough for everything still leaves the first clause out.
		cons := Constraints{Mode: ModeToken, MaxTokens: 200, OverlapPct: 75}
		assert.Equal(t, 1, selectOverlap(clauses, tokens, cons))
	})
}

func TestSelectOverlapSentenceBudget(t *testing.T) {
	clauses := []types.Clause{
		clauseRow("First sentence.", 0),
		clauseRow("Second sentence.", 1),
		clauseRow("Third sentence.", 2),
	}

	t.Run("one sentence carried", func(t *testing.T) {
		cons := Constraints{Mode: ModeSentence, MaxSentences: 2, OverlapPct: 50}
		assert.Equal(t, 2, selectOverlap(clauses, nil, cons))
	})

	t.Run("budget below one sentence means no overlap", func(t *testing.T) {
		cons := Constraints{Mode: ModeSentence, MaxSentences: 2, OverlapPct: 20}
		assert.Equal(t, len(clauses), selectOverlap(clauses, nil, cons))
	})

	t.Run("multi-clause sentence counted once", func(t *testing.T) {
		split := []types.Clause{
			clauseRow("Lead sentence.", 0),
			clauseRow("Tail first half, ", 1),
			clauseRow("Tail second half.", 1),
		}
		cons := Constraints{Mode: ModeSentence, MaxSentences: 2, OverlapPct: 50}
		assert.Equal(t, 1, selectOverlap(split, nil, cons))
	})
}

func TestSelectOverlapSkipsBlankClauses(t *testing.T) {
	clauses := []types.Clause{
		clauseRow("Real content, ", 0),
		clauseRow("More content.", 0),
		clauseRow("\n\n", 1),
	}
	tokens := []int{4, 4, 0}
	cons := Constraints{Mode: ModeToken, MaxTokens: 20, OverlapPct: 25}

	// The blank trailing clause is skipped; the seed starts at the last
	// clause with content.
	assert.Equal(t, 1, selectOverlap(clauses, tokens, cons))
}

func TestReanchorOverlap(t *testing.T) {
	t.Run("lowercase continuation re-anchors to sentence start", func(t *testing.T) {
		clauses := []types.Clause{
			clauseRow("Earlier sentence.", 0),
			clauseRow("This clause leads, ", 1),
			clauseRow("and this one follows.", 1),
		}
		assert.Equal(t, 1, reanchorOverlap(clauses, 2))
	})

	t.Run("capitalized seed stays put", func(t *testing.T) {
		clauses := []types.Clause{
			clauseRow("First.", 0),
			clauseRow("Second.", 1),
			clauseRow("Third.", 2),
		}
		assert.Equal(t, 2, reanchorOverlap(clauses, 2))
	})

	t.Run("never extends to the whole chunk", func(t *testing.T) {
		clauses := []types.Clause{
			clauseRow("one half, ", 0),
			clauseRow("other half.", 0),
		}
		// Re-anchoring stops at index 1 so the next chunk makes progress.
		assert.Equal(t, 1, reanchorOverlap(clauses, 1))
	})
}

func TestStartsLower(t *testing.T) {
	assert.True(t, startsLower("and so on"))
	assert.True(t, startsLower("  (and parenthetical"))
	assert.True(t, startsLower("42 degrees")) // digits are skipped, first letter decides
	assert.False(t, startsLower("The start"))
	assert.False(t, startsLower("42.")) // no letter at all, not a continuation
	assert.False(t, startsLower("!!!"))
	assert.False(t, startsLower(""))
}
