// Package tokencount wraps a caller-supplied token-counting capability
// with caching and fault isolation.
//
// The counting function is treated as a blocking, fallible external call.
// Every invocation passes through a bounded LRU cache keyed by the
// SHA-256 hash of the exact input string, never by object identity, so
// the cache cannot keep large inputs alive. The cache is process-wide per
// Counter and explicitly clearable; a failed computation is never
// partially cached.
//
// Counting functions must be deterministic: a function whose result for a
// given text varies between calls invalidates the caching guarantee.
//
// # Providers
//
// Three built-in counters cover common cases:
//
//   - NewTiktoken: BPE token counts via tiktoken (e.g. cl100k_base).
//   - NewWords: unicode word/punctuation counting, a reasonable
//     approximation of GPT-style tokenization for plain prose.
//   - NewHeuristic: bytes/4 estimate, the cheapest option.
//
// NewFromEnv selects a provider from the CHUNKLET_TOKEN_COUNTER
// environment variable.
package tokencount
