package tokencount

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// DefaultCacheSize bounds the content-hash cache when no explicit size is
// given. Counts are small; the cost is the key strings, not the values.
const DefaultCacheSize = 16384

// Common errors.
var (
	ErrNilCountFunc  = errors.New("count function is required")
	ErrNegativeCount = errors.New("count function returned a negative count")
)

// CountFunc is the single-method contract a token counter fulfills:
// a deterministic, non-negative token count for the given text.
type CountFunc func(text string) (int, error)

// Counter wraps a CountFunc with a bounded, content-hash-keyed LRU cache
// and callback fault isolation. Safe for concurrent use.
type Counter struct {
	name  string
	fn    CountFunc
	cache *lru.Cache[string, int]
}

// New creates a Counter around fn. The function is validated here, once,
// rather than at each call site. cacheSize <= 0 selects DefaultCacheSize.
func New(name string, fn CountFunc, cacheSize int) (*Counter, error) {
	if fn == nil {
		return nil, ErrNilCountFunc
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, int](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating token count cache: %w", err)
	}
	return &Counter{name: name, fn: fn, cache: cache}, nil
}

// Count returns the token count for text, consulting the cache first.
// A failure of the underlying function is wrapped in a types.CallbackError
// carrying a prefix of the offending text; nothing is cached on failure.
func (c *Counter) Count(text string) (int, error) {
	key := hashKey(text)
	if n, ok := c.cache.Get(key); ok {
		return n, nil
	}

	n, err := c.fn(text)
	if err != nil {
		return 0, types.NewCallbackError("token counter", text, err)
	}
	if n < 0 {
		return 0, types.NewCallbackError("token counter", text, ErrNegativeCount)
	}

	c.cache.Add(key, n)
	return n, nil
}

// Name identifies the underlying provider ("tiktoken", "words", ...).
func (c *Counter) Name() string {
	return c.name
}

// CacheLen returns the number of cached counts.
func (c *Counter) CacheLen() int {
	return c.cache.Len()
}

// ClearCache empties the cache.
func (c *Counter) ClearCache() {
	c.cache.Purge()
}

// hashKey derives the cache key from the content itself, so the cache
// never retains a reference to the input string.
func hashKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
