package chunklet

import (
	"unicode"
	"unicode/utf8"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// forcedBoundaryWindow is the maximum clause length in runes before a
// synthetic boundary is forced. Long unpunctuated artifacts (URLs, base64
// blobs, minified streams) carry no triggers for hundreds of characters;
// bounding clause length here bounds worst-case grouping cost downstream.
const forcedBoundaryWindow = 150

// clauseTriggers are the punctuation runes that end a clause. The trigger
// stays with the clause it terminates.
var clauseTriggers = map[rune]bool{
	';': true, ',': true, ':': true,
	')': true, ']': true,
	'’': true, // ’
	'”': true, // ”
	'—': true, // —
	'…': true, // …
}

// segmentClauses splits a sentence into clauses on punctuation triggers,
// forcing a boundary when no trigger occurs within forcedBoundaryWindow
// runes. Never returns an empty slice for a non-empty sentence, and holds
// no state across calls.
//
// Clause spans tile the sentence span: whitespace after a trigger is
// consumed into the clause the trigger ends, so rejoining clauses
// reproduces the original formatting.
func segmentClauses(s types.Sentence) []types.Clause {
	if s.Text == "" {
		return nil
	}

	clauses := make([]types.Clause, 0, 4)
	clauseStart := 0 // byte offset within s.Text
	runesSince := 0

	emit := func(end int) {
		clauses = append(clauses, types.Clause{
			Text:          s.Text[clauseStart:end],
			Start:         s.Start + clauseStart,
			End:           s.Start + end,
			SentenceIndex: s.Index,
			Index:         len(clauses),
		})
		clauseStart = end
		runesSince = 0
	}

	i := 0
	for i < len(s.Text) {
		r, size := utf8.DecodeRuneInString(s.Text[i:])

		if clauseTriggers[r] {
			// Consume the whole trigger run (",," or ")]"), then any
			// trailing whitespace, into the current clause.
			j := i + size
			for j < len(s.Text) {
				nr, ns := utf8.DecodeRuneInString(s.Text[j:])
				if !clauseTriggers[nr] {
					break
				}
				j += ns
			}
			for j < len(s.Text) {
				nr, ns := utf8.DecodeRuneInString(s.Text[j:])
				if !unicode.IsSpace(nr) {
					break
				}
				j += ns
			}
			emit(j)
			i = j
			continue
		}

		i += size
		runesSince++

		// Greedy cutoff: no trigger within the window forces a boundary
		// right here, keeping clause length bounded on artifact input.
		if runesSince >= forcedBoundaryWindow && i < len(s.Text) {
			emit(i)
		}
	}

	if clauseStart < len(s.Text) {
		emit(len(s.Text))
	}

	return clauses
}
