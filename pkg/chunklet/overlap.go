package chunklet

import (
	"unicode"
	"unicode/utf8"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// DefaultContinuationMarker prefixes the overlapped region of a chunk so
// consumers can tell carried-over context from new content. Configurable
// via WithContinuationMarker; the empty string disables it.
const DefaultContinuationMarker = "... "

// selectOverlap picks the trailing clauses of a finalized chunk that seed
// the next one. clauses and clauseTokens are parallel; clauseTokens may be
// nil in sentence mode.
//
// The budget is OverlapPct applied to the active limit: the token limit in
// token and hybrid modes, the sentence limit in sentence mode. Walking
// backward from the tail, blank clauses are skipped and clauses accumulate
// while they fit the budget. A tail clause that alone exceeds the budget
// skips overlap for that boundary entirely.
//
// Returns the index into clauses where the seed begins, or len(clauses)
// for no overlap. The whole chunk is never selected: the next chunk must
// make forward progress.
func selectOverlap(clauses []types.Clause, clauseTokens []int, cons Constraints) int {
	n := len(clauses)
	if cons.OverlapPct <= 0 || n == 0 {
		return n
	}

	start := n
	if cons.usesTokens() {
		budget := cons.MaxTokens * cons.OverlapPct / 100
		acc := 0
		for i := n - 1; i > 0; i-- {
			if clauses[i].IsBlank() {
				continue
			}
			ct := clauseTokens[i]
			if acc+ct > budget {
				break
			}
			acc += ct
			start = i
		}
	} else {
		budget := cons.MaxSentences * cons.OverlapPct / 100
		if budget < 1 {
			return n
		}
		seen := 0
		lastSentence := -1
		for i := n - 1; i > 0; i-- {
			if clauses[i].IsBlank() {
				continue
			}
			prospective := seen
			if clauses[i].SentenceIndex != lastSentence {
				prospective++
			}
			if prospective > budget {
				break
			}
			seen = prospective
			lastSentence = clauses[i].SentenceIndex
			start = i
		}
	}

	if start == n {
		return n
	}
	return reanchorOverlap(clauses, start)
}

// reanchorOverlap applies the capitalization heuristic: when the clause at
// the cut point reads like mid-sentence continuation (first letter is
// lower-case), the seed is extended backward to the first clause of that
// sentence so the overlap opens on a sentence start. Best effort only; it
// is not expected to be linguistically exact across languages.
func reanchorOverlap(clauses []types.Clause, start int) int {
	if start <= 0 || start >= len(clauses) {
		return start
	}
	if !startsLower(clauses[start].Text) {
		return start
	}
	sentence := clauses[start].SentenceIndex
	for start > 1 && clauses[start-1].SentenceIndex == sentence {
		start--
	}
	return start
}

// startsLower reports whether the first letter rune of s is lower-case.
// Leading whitespace, digits, and punctuation are skipped; a string with
// no letters is not considered a continuation.
func startsLower(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsDigit(r) {
			return false
		}
		i += size
	}
	return false
}
