package types

import (
	"fmt"
	"strings"
)

// Sentence is a contiguous span of the original text produced by a sentence
// splitter. Sentences are immutable once produced; consecutive sentences
// from the built-in splitter tile the input without gaps.
type Sentence struct {
	Text  string // The sentence content, including original whitespace
	Start int    // Byte offset in original text (inclusive)
	End   int    // Byte offset in original text (exclusive)
	Index int    // Zero-based ordinal in the document
	Lang  string // Language tag the sentence was split under
}

// String returns a debug representation, e.g. Sentence(3)[120:168].
func (s Sentence) String() string {
	return fmt.Sprintf("Sentence(%d)[%d:%d]", s.Index, s.Start, s.End)
}

// Clause is a contiguous sub-span of a Sentence, ended either by a
// punctuation trigger or by a forced boundary on degenerate input.
// Concatenating a sentence's clauses in order reproduces the sentence
// exactly, original whitespace included.
type Clause struct {
	Text          string // The clause content
	Start         int    // Byte offset in original text (inclusive)
	End           int    // Byte offset in original text (exclusive)
	SentenceIndex int    // Index of the parent sentence
	Index         int    // Zero-based ordinal within the parent sentence
}

// String returns a debug representation, e.g. Clause(3.1)[130:142].
func (c Clause) String() string {
	return fmt.Sprintf("Clause(%d.%d)[%d:%d]", c.SentenceIndex, c.Index, c.Start, c.End)
}

// IsBlank reports whether the clause contains only whitespace. Blank
// clauses are skipped when selecting overlap seeds.
func (c Clause) IsBlank() bool {
	return strings.TrimSpace(c.Text) == ""
}
