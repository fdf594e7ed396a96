package splitter

import (
	"unicode"
	"unicode/utf8"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// abbreviations maps common abbreviated words (lowercase, trailing dot
// included) to true, suppressing false sentence breaks after them.
// Dotted multi-part forms ("e.g.") are matched against the whole run.
var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"sr.": true, "jr.": true, "st.": true, "no.": true, "vs.": true,
	"etc.": true, "e.g.": true, "i.e.": true, "cf.": true, "al.": true,
	"fig.": true, "vol.": true, "approx.": true,
}

// DefaultSplit is the built-in sentence splitter used when no registered
// splitter serves the requested language. It is deliberately language-naive:
// terminal punctuation (. ! ? and the ellipsis) ends a sentence when the
// following non-space rune starts with an upper-case letter or a digit, a
// blank line always ends one, and known abbreviations never do.
//
// Adjacent sentences cover the entire input without gaps or overlaps:
// concatenating all Sentence.Text values reconstructs text exactly.
func DefaultSplit(text, lang string) ([]types.Sentence, error) {
	if text == "" {
		return nil, nil
	}

	sentences := make([]types.Sentence, 0, len(text)/48+1)
	sentStart := 0

	emit := func(end int) {
		sentences = append(sentences, types.Sentence{
			Text:  text[sentStart:end],
			Start: sentStart,
			End:   end,
			Index: len(sentences),
			Lang:  lang,
		})
		sentStart = end
	}

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		// A blank line forces a break regardless of punctuation. The
		// newline run stays with the sentence it terminates.
		if r == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			j := i
			for j < len(text) && text[j] == '\n' {
				j++
			}
			emit(j)
			i = j
			continue
		}

		if r == '.' || r == '?' || r == '!' {
			if r == '.' && isAbbreviation(text, sentStart, i) {
				i += size
				continue
			}

			// Consume the whole terminal cluster ("?!", "...", "....").
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if nr != '.' && nr != '?' && nr != '!' {
					break
				}
				j += ns
			}

			if startsNewSentence(text, j) {
				emit(j)
			}
			i = j
			continue
		}

		if r == '…' { // …
			j := i + size
			if startsNewSentence(text, j) {
				emit(j)
			}
			i = j
			continue
		}

		i += size
	}

	if sentStart < len(text) {
		emit(len(text))
	}

	return sentences, nil
}

// startsNewSentence reports whether the text following a terminal cluster
// at pos looks like the beginning of a new sentence: whitespace, then an
// upper-case letter, a digit, or an opening quote.
func startsNewSentence(text string, pos int) bool {
	if pos >= len(text) {
		return false // trailing remainder is emitted by the caller
	}

	r, size := utf8.DecodeRuneInString(text[pos:])
	if !unicode.IsSpace(r) {
		return false
	}

	j := pos + size
	for j < len(text) {
		nr, ns := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsSpace(nr) {
			if nr == '"' || nr == '\'' || nr == '“' || nr == '‘' || nr == '(' {
				j += ns
				continue
			}
			return unicode.IsUpper(nr) || unicode.IsDigit(nr)
		}
		j += ns
	}
	return false
}

// isAbbreviation reports whether the dot at dotPos ends a known
// abbreviation. The word is scanned backwards from the dot, letters and
// interior dots included, so "e.g." matches as a whole.
func isAbbreviation(text string, lo, dotPos int) bool {
	start := dotPos
	for start > lo {
		r, size := utf8.DecodeLastRuneInString(text[lo:start])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		start -= size
	}
	if start == dotPos {
		return false
	}

	word := text[start : dotPos+1]
	lower := make([]rune, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		lower = append(lower, unicode.ToLower(r))
	}
	if abbreviations[string(lower)] {
		return true
	}

	// A single letter followed by a dot ("J. Smith", "U.S.") is treated
	// as an initial, not a sentence end.
	return utf8.RuneCountInString(word) == 2
}
