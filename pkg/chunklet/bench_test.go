package chunklet

import (
	"context"
	"strings"
	"testing"

	"github.com/speedyk-005/chunklet-go/pkg/tokencount"
)

func benchText() string {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("The grouping engine consumes clauses in order, one at a time. ")
		sb.WriteString("Counts are maintained incrementally, never by rescanning. ")
		sb.WriteString("Overlap carries a bounded tail into the next chunk; progress is guaranteed. ")
	}
	return sb.String()
}

func BenchmarkChunkSentenceMode(b *testing.B) {
	c := New()
	text := benchText()
	cons := Constraints{Mode: ModeSentence, MaxSentences: 4, OverlapPct: 25}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Chunk(context.Background(), text, cons); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkChunkHybridMode(b *testing.B) {
	c := New(WithTokenCounter(tokencount.NewWords(0)))
	text := benchText()
	cons := Constraints{Mode: ModeHybrid, MaxSentences: 4, MaxTokens: 64, OverlapPct: 25}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Chunk(context.Background(), text, cons); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSegmentClauses(b *testing.B) {
	s := sentenceOf("First part of the sentence, second part; third part (aside), and the long tail that carries the rest of the words to the end.")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		segmentClauses(s)
	}
}
