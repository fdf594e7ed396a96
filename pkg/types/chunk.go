package types

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// Chunk is one bounded output unit of the grouping engine: the text of an
// ordered run of clauses, possibly prefixed by a continuation marker when
// the chunk begins with overlap carried over from its predecessor.
type Chunk struct {
	Content  string
	Metadata ChunkMetadata
}

// ChunkMetadata carries the derived facts about a chunk.
//
// Start/End cover every clause in the chunk, overlap seed included, so a
// chunk's span may overlap its predecessor's span. TokenCount is zero when
// chunking ran without a token counter (sentence mode).
type ChunkMetadata struct {
	ChunkNum      int  // 1-based position in the output sequence
	Start         int  // Byte offset in original text (inclusive)
	End           int  // Byte offset in original text (exclusive)
	TokenCount    int  // Sum of clause token counts, 0 if no counter was used
	SentenceCount int  // Number of distinct sentences spanned
	OverlapCount  int  // Number of leading clauses carried from the previous chunk
	Oversized     bool // Single irreducible clause exceeding the token limit
}

// String returns a debug representation, e.g. Chunk(2)[100:240](3 sentences).
func (c Chunk) String() string {
	return fmt.Sprintf("Chunk(%d)[%d:%d](%d sentences)",
		c.Metadata.ChunkNum, c.Metadata.Start, c.Metadata.End, c.Metadata.SentenceCount)
}

// ContentHash returns the SHA-256 hash of the chunk content, used for
// deduplication in the chunk store.
func (c Chunk) ContentHash() [32]byte {
	return sha256.Sum256([]byte(c.Content))
}

// Validate checks the structural invariants every emitted chunk must hold.
func (c Chunk) Validate() error {
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if c.Metadata.ChunkNum < 1 {
		return errors.New("chunk number must be 1-based")
	}
	if c.Metadata.Start < 0 || c.Metadata.End <= c.Metadata.Start {
		return fmt.Errorf("invalid chunk span [%d:%d)", c.Metadata.Start, c.Metadata.End)
	}
	if c.Metadata.SentenceCount < 1 {
		return errors.New("chunk must span at least one sentence")
	}
	return nil
}
