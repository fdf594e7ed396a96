package chunklet

import (
	"fmt"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// grouper is the chunk-grouping state machine. It consumes clauses in
// document order, accumulating into the current chunk until a constraint
// would be violated, then finalizes the chunk, seeds the next one with
// overlap clauses, and re-evaluates the same clause against the fresh
// chunk. Counts are maintained incrementally per accepted clause; the
// chunk is never re-scanned.
type grouper struct {
	text   string
	cons   Constraints
	marker string

	chunks   []types.Chunk
	warnings []string

	// Current chunk state.
	clauses      []types.Clause
	clauseTokens []int // parallel to clauses; zeros without a counter
	seedCount    int   // leading clauses carried from the previous chunk
	tokens       int
	sentences    int
	lastSentence int
	oversized    bool
}

func newGrouper(text string, cons Constraints, marker string) *grouper {
	return &grouper{
		text:         text,
		cons:         cons,
		marker:       marker,
		lastSentence: -1,
	}
}

// offer feeds one clause with its precomputed token count through the
// state machine. At most one chunk boundary can be forced per clause:
// after a finalize+seed cycle the seeded chunk either fits the clause or
// accepts it unconditionally.
func (g *grouper) offer(cl types.Clause, clTokens int) error {
	for {
		if len(g.clauses) == g.seedCount {
			// The seed gives way to new content: shed leading seed
			// clauses until the clause fits. A chunk with no clauses
			// left accepts anything, which is what turns a single
			// oversized clause into its own chunk instead of an
			// infinite finalize/seed loop.
			for g.seedCount > 0 && g.wouldOverflow(cl, clTokens) {
				g.dropLeadingSeed()
			}
			return g.accept(cl, clTokens)
		}

		if !g.wouldOverflow(cl, clTokens) {
			return g.accept(cl, clTokens)
		}

		g.finalize()
		g.seed()
	}
}

// dropLeadingSeed removes the oldest seed clause from the current chunk,
// maintaining counts without a rescan. Clauses of one sentence are
// contiguous, so the sentence count drops only when the removed clause
// was its sentence's last representative.
func (g *grouper) dropLeadingSeed() {
	removed := g.clauses[0]
	g.tokens -= g.clauseTokens[0]
	if len(g.clauses) == 1 || g.clauses[1].SentenceIndex != removed.SentenceIndex {
		g.sentences--
	}
	if len(g.clauses) == 1 {
		g.lastSentence = -1
	}
	g.clauses = g.clauses[1:]
	g.clauseTokens = g.clauseTokens[1:]
	g.seedCount--
}

// wouldOverflow computes the prospective counts if cl were appended and
// checks them against every active limit. Hybrid mode is a conjunction:
// both limits are checked on every offer, and whichever is reached first
// forces the boundary.
func (g *grouper) wouldOverflow(cl types.Clause, clTokens int) bool {
	if g.cons.usesTokens() && g.tokens+clTokens > g.cons.MaxTokens {
		return true
	}
	if g.cons.usesSentences() {
		prospective := g.sentences
		if cl.SentenceIndex != g.lastSentence {
			prospective++
		}
		if prospective > g.cons.MaxSentences {
			return true
		}
	}
	return false
}

// accept appends cl to the current chunk, updating counts incrementally.
func (g *grouper) accept(cl types.Clause, clTokens int) error {
	if g.cons.usesTokens() && clTokens > g.cons.MaxTokens {
		if g.cons.Strict {
			return &types.OversizedClauseError{
				TokenCount:   clTokens,
				MaxTokens:    g.cons.MaxTokens,
				ClausePrefix: prefixOf(cl.Text),
			}
		}
		g.oversized = true
		g.warnings = append(g.warnings, fmt.Sprintf(
			"clause at offset %d counts %d tokens, over max_tokens=%d; emitting as its own chunk",
			cl.Start, clTokens, g.cons.MaxTokens))
	}

	g.clauses = append(g.clauses, cl)
	g.clauseTokens = append(g.clauseTokens, clTokens)
	g.tokens += clTokens
	if cl.SentenceIndex != g.lastSentence {
		g.sentences++
		g.lastSentence = cl.SentenceIndex
	}
	return nil
}

// finalize flushes the current chunk. Clauses are contiguous in the
// original text, so the content is a single slice of it, prefixed with
// the continuation marker when the chunk opens with overlap.
func (g *grouper) finalize() {
	if len(g.clauses) == 0 {
		return
	}

	first := g.clauses[0]
	last := g.clauses[len(g.clauses)-1]

	content := g.text[first.Start:last.End]
	if g.seedCount > 0 && g.marker != "" {
		content = g.marker + content
	}

	g.chunks = append(g.chunks, types.Chunk{
		Content: content,
		Metadata: types.ChunkMetadata{
			ChunkNum:      len(g.chunks) + 1,
			Start:         first.Start,
			End:           last.End,
			TokenCount:    g.tokens,
			SentenceCount: g.sentences,
			OverlapCount:  g.seedCount,
			Oversized:     g.oversized,
		},
	})
}

// seed primes the next chunk with the overlap tail of the one just
// finalized, recomputing its counts from the retained per-clause numbers.
func (g *grouper) seed() {
	start := selectOverlap(g.clauses, g.clauseTokens, g.cons)

	seedClauses := g.clauses[start:]
	seedTokens := g.clauseTokens[start:]

	next := make([]types.Clause, len(seedClauses))
	copy(next, seedClauses)
	nextTokens := make([]int, len(seedTokens))
	copy(nextTokens, seedTokens)

	g.clauses = next
	g.clauseTokens = nextTokens
	g.seedCount = len(next)
	g.oversized = false

	g.tokens = 0
	g.sentences = 0
	g.lastSentence = -1
	for i, cl := range next {
		g.tokens += nextTokens[i]
		if cl.SentenceIndex != g.lastSentence {
			g.sentences++
			g.lastSentence = cl.SentenceIndex
		}
	}
}

// finish flushes whatever remains as the final chunk. A trailing chunk
// holding only seed clauses is dropped: its content was already emitted.
func (g *grouper) finish() []types.Chunk {
	if len(g.clauses) > g.seedCount {
		g.finalize()
	}
	return g.chunks
}

// prefixOf truncates a clause for error messages.
func prefixOf(s string) string {
	const n = 48
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
