// Package types defines the shared data model for the chunklet pipeline.
//
// The pipeline operates on three units of text, from coarse to fine:
//
//   - Sentence: a span produced by a sentence splitter, with byte offsets
//     into the original document.
//   - Clause: a punctuation-delimited (or cutoff-forced) sub-span of a
//     sentence. Clauses are the atomic unit the grouping engine works with.
//   - Chunk: an ordered run of clauses emitted as one output unit, with
//     derived metadata (chunk number, span, token and sentence counts).
//
// All offsets are byte offsets into the original input string, half-open
// [Start, End). For every unit u produced from input text, the invariant
// text[u.Start:u.End] == u.Text holds.
//
// The package also defines the fault taxonomy shared by all components:
// validation faults (sentinel errors), callback faults (CallbackError),
// and the strict-mode oversized-clause fault (OversizedClauseError).
package types
