package chunklet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedyk-005/chunklet-go/pkg/tokencount"
	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// flakyChunker fails the token counter for any clause containing the
// trigger word, so individual batch items can be made to fail.
func flakyChunker(t *testing.T, trigger string) *Chunker {
	t.Helper()
	counter, err := tokencount.New("flaky", func(text string) (int, error) {
		if strings.Contains(text, trigger) {
			return 0, fmt.Errorf("refusing to count %q", trigger)
		}
		return len(strings.Fields(text)), nil
	}, 0)
	require.NoError(t, err)
	return New(WithTokenCounter(counter))
}

func drainBatch(t *testing.T, it *BatchIterator) []*BatchResult {
	t.Helper()
	var results []*BatchResult
	for {
		res, ok := it.Next()
		if !ok {
			return results
		}
		results = append(results, res)
	}
}

func TestChunkBatchOrder(t *testing.T) {
	c := New()
	texts := make([]string, 8)
	for i := range texts {
		texts[i] = fmt.Sprintf("Batch item number %d starts here. It has a second sentence too.", i)
	}

	it, err := c.ChunkBatch(context.Background(), texts, Constraints{
		Mode: ModeSentence, MaxSentences: 1,
	}, BatchOptions{Workers: 3})
	require.NoError(t, err)
	defer func() { _ = it.Close() }()

	results := drainBatch(t, it)
	require.Len(t, results, len(texts))
	for i, res := range results {
		assert.Equal(t, i, res.Index, "results must arrive in input order")
		require.NotEmpty(t, res.Chunks)
		assert.Contains(t, res.Chunks[0].Content, fmt.Sprintf("number %d", i))
	}
	assert.NoError(t, it.Err())
	assert.Empty(t, it.Skipped())
}

func TestChunkBatchValidationUpFront(t *testing.T) {
	c := New()

	t.Run("invalid constraints rejected before dispatch", func(t *testing.T) {
		_, err := c.ChunkBatch(context.Background(), []string{"x"}, Constraints{
			Mode: ModeSentence, MaxSentences: 2, OverlapPct: 90,
		}, BatchOptions{})
		assert.ErrorIs(t, err, types.ErrInvalidConstraint)
	})

	t.Run("unknown policy rejected", func(t *testing.T) {
		_, err := c.ChunkBatch(context.Background(), []string{"x"}, Constraints{
			Mode: ModeSentence, MaxSentences: 2,
		}, BatchOptions{Policy: "explode"})
		assert.Error(t, err)
	})
}

func TestChunkBatchEmptyInput(t *testing.T) {
	c := New()
	it, err := c.ChunkBatch(context.Background(), nil, Constraints{
		Mode: ModeSentence, MaxSentences: 2,
	}, BatchOptions{})
	require.NoError(t, err)

	_, ok := it.Next()
	assert.False(t, ok)
	assert.NoError(t, it.Close())
}

func TestChunkBatchPolicies(t *testing.T) {
	texts := []string{
		"Clean opening text here.",
		"This item will detonate badly.",
		"Clean closing text here.",
	}
	cons := Constraints{Mode: ModeToken, MaxTokens: 50}

	t.Run("skip drops the failure and continues", func(t *testing.T) {
		c := flakyChunker(t, "detonate")
		it, err := c.ChunkBatch(context.Background(), texts, cons, BatchOptions{Policy: PolicySkip})
		require.NoError(t, err)
		defer func() { _ = it.Close() }()

		results := drainBatch(t, it)
		require.Len(t, results, 2)
		assert.Equal(t, 0, results[0].Index)
		assert.Equal(t, 2, results[1].Index)

		assert.NoError(t, it.Err())
		skipped := it.Skipped()
		require.Len(t, skipped, 1)
		assert.Equal(t, 1, skipped[0].Index)

		var cb *types.CallbackError
		assert.ErrorAs(t, skipped[0].Err, &cb)
	})

	t.Run("break delivers the prefix then halts", func(t *testing.T) {
		c := flakyChunker(t, "detonate")
		it, err := c.ChunkBatch(context.Background(), texts, cons, BatchOptions{Policy: PolicyBreak})
		require.NoError(t, err)
		defer func() { _ = it.Close() }()

		results := drainBatch(t, it)
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].Index)
		assert.Error(t, it.Err())
	})

	t.Run("raise surfaces the failure and aborts", func(t *testing.T) {
		c := flakyChunker(t, "detonate")
		front := []string{texts[1], texts[0], texts[2]}
		it, err := c.ChunkBatch(context.Background(), front, cons, BatchOptions{})
		require.NoError(t, err)
		defer func() { _ = it.Close() }()

		results := drainBatch(t, it)
		assert.Empty(t, results)
		require.Error(t, it.Err())

		var cb *types.CallbackError
		assert.ErrorAs(t, it.Err(), &cb)
	})

	t.Run("raise recovers the fault behind a canceled sibling", func(t *testing.T) {
		// The first item stalls in its token counter until after the
		// second item has failed and canceled the run, so the stalled
		// slot settles with the cancellation rather than the fault.
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		counter, err := tokencount.New("gated", func(text string) (int, error) {
			switch {
			case strings.Contains(text, "stall"):
				once.Do(func() { close(started) })
				<-release
				return len(strings.Fields(text)), nil
			case strings.Contains(text, "detonate"):
				<-started
				return 0, fmt.Errorf("refusing to count %q", "detonate")
			default:
				return len(strings.Fields(text)), nil
			}
		}, 0)
		require.NoError(t, err)
		c := New(WithTokenCounter(counter))

		go func() {
			<-started
			time.Sleep(50 * time.Millisecond)
			close(release)
		}()

		late := []string{
			"This item will stall first. Then it carries on further.",
			"This item will detonate badly.",
		}
		it, err := c.ChunkBatch(context.Background(), late, cons, BatchOptions{Workers: 2})
		require.NoError(t, err)
		defer func() { _ = it.Close() }()

		drainBatch(t, it)
		require.Error(t, it.Err())
		assert.NotErrorIs(t, it.Err(), context.Canceled)

		var cb *types.CallbackError
		require.ErrorAs(t, it.Err(), &cb)
		assert.ErrorContains(t, it.Err(), "detonate")
	})
}

func TestChunkBatchCloseEarly(t *testing.T) {
	c := New()
	texts := make([]string, 32)
	for i := range texts {
		texts[i] = "A sentence to chunk. Another one follows."
	}

	it, err := c.ChunkBatch(context.Background(), texts, Constraints{
		Mode: ModeSentence, MaxSentences: 1,
	}, BatchOptions{Workers: 2})
	require.NoError(t, err)

	// Abandon after one result; Close must release the pool without
	// waiting for delivery of the rest.
	res, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 0, res.Index)

	assert.NoError(t, it.Close())
	assert.NoError(t, it.Close(), "close is idempotent")
}

func TestChunkBatchSharedCounterCache(t *testing.T) {
	counter := tokencount.NewWords(0)
	c := New(WithTokenCounter(counter))

	// Identical texts across items resolve through the shared cache.
	texts := []string{"Same text everywhere.", "Same text everywhere.", "Same text everywhere."}
	it, err := c.ChunkBatch(context.Background(), texts, Constraints{
		Mode: ModeToken, MaxTokens: 50,
	}, BatchOptions{Workers: 3})
	require.NoError(t, err)
	defer func() { _ = it.Close() }()

	results := drainBatch(t, it)
	require.Len(t, results, 3)
	for _, res := range results {
		require.Len(t, res.Chunks, 1)
		assert.Equal(t, results[0].Chunks[0].Metadata.TokenCount, res.Chunks[0].Metadata.TokenCount)
	}
	assert.GreaterOrEqual(t, counter.CacheLen(), 1)
}
