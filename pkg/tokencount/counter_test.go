package tokencount

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

func TestNewValidation(t *testing.T) {
	_, err := New("broken", nil, 0)
	assert.ErrorIs(t, err, ErrNilCountFunc)
}

func TestCountCaching(t *testing.T) {
	calls := 0
	counter, err := New("test", func(text string) (int, error) {
		calls++
		return len(text), nil
	}, 8)
	require.NoError(t, err)

	n, err := counter.Count("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 1, calls)

	// Second call for identical content hits the cache.
	n, err = counter.Count("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, counter.CacheLen())

	// Different content misses.
	_, err = counter.Count("other")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, counter.CacheLen())

	counter.ClearCache()
	assert.Equal(t, 0, counter.CacheLen())

	_, err = counter.Count("hello")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCountCallbackFailure(t *testing.T) {
	cause := errors.New("tokenizer exploded")
	calls := 0
	counter, err := New("test", func(text string) (int, error) {
		calls++
		return 0, cause
	}, 8)
	require.NoError(t, err)

	_, err = counter.Count("some input")
	require.Error(t, err)

	var cb *types.CallbackError
	require.ErrorAs(t, err, &cb)
	assert.Equal(t, "token counter", cb.Capability)
	assert.ErrorIs(t, err, cause)

	// Failures are never cached: the next call invokes the function again.
	assert.Equal(t, 0, counter.CacheLen())
	_, err = counter.Count("some input")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestCountNegativeRejected(t *testing.T) {
	counter, err := New("test", func(text string) (int, error) {
		return -1, nil
	}, 8)
	require.NoError(t, err)

	_, err = counter.Count("anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeCount)
	assert.Equal(t, 0, counter.CacheLen())
}

func TestCounterName(t *testing.T) {
	counter, err := New("custom", func(string) (int, error) { return 0, nil }, 0)
	require.NoError(t, err)
	assert.Equal(t, "custom", counter.Name())
}
