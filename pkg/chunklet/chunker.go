package chunklet

import (
	"context"
	"fmt"

	"github.com/speedyk-005/chunklet-go/pkg/splitter"
	"github.com/speedyk-005/chunklet-go/pkg/tokencount"
	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// Chunker runs the single-text pipeline: sentence splitting, clause
// segmentation, and constraint-bounded grouping with overlap. A Chunker
// is immutable after construction and safe for concurrent use; the batch
// pipeline shares one across workers.
type Chunker struct {
	registry *splitter.Registry
	counter  *tokencount.Counter
	marker   string
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithRegistry supplies a splitter registry. The registry is frozen on
// construction if the caller has not frozen it already.
func WithRegistry(r *splitter.Registry) Option {
	return func(c *Chunker) { c.registry = r }
}

// WithTokenCounter supplies the token-counting capability required by
// token and hybrid modes.
func WithTokenCounter(tc *tokencount.Counter) Option {
	return func(c *Chunker) { c.counter = tc }
}

// WithContinuationMarker overrides the marker prefixed to a chunk's
// overlapped region. The empty string disables the marker.
func WithContinuationMarker(marker string) Option {
	return func(c *Chunker) { c.marker = marker }
}

// New constructs a Chunker. Without options it uses the built-in sentence
// splitter, the default continuation marker, and no token counter (so
// only sentence mode is available until WithTokenCounter is given).
func New(opts ...Option) *Chunker {
	c := &Chunker{
		registry: splitter.NewRegistry(),
		marker:   DefaultContinuationMarker,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registry.Freeze()
	return c
}

// Counter exposes the configured token counter, nil when none was set.
func (c *Chunker) Counter() *tokencount.Counter {
	return c.counter
}

// Result is the outcome of chunking one text. Warnings carry non-fatal
// conditions (offset past end of text, oversized clauses in lenient
// operation) that did not stop processing.
type Result struct {
	Chunks   []types.Chunk
	Warnings []string
}

// Chunk splits text into sentences, segments them into clauses, and
// groups the clauses into bounded chunks per cons. All validation happens
// before any segmentation work; the returned chunks are deterministic for
// identical input, constraints, and token counter.
//
// Empty input yields an empty result with no warnings. The offset warning
// covers an offset at or past the last sentence of a non-empty text,
// where a configured offset went unused.
func (c *Chunker) Chunk(ctx context.Context, text string, cons Constraints) (*Result, error) {
	if err := cons.Validate(c.counter != nil); err != nil {
		return nil, err
	}

	res := &Result{}
	if text == "" {
		return res, nil
	}

	split := c.registry.Resolve(cons.Language)
	sentences, err := split(text, cons.Language)
	if err != nil {
		return nil, types.NewCallbackError("sentence splitter", text, err)
	}

	if cons.Offset >= len(sentences) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"offset %d is at or past the last sentence (%d total); nothing to chunk",
			cons.Offset, len(sentences)))
		return res, nil
	}
	sentences = sentences[cons.Offset:]

	g := newGrouper(text, cons, c.marker)
	for _, sent := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, cl := range segmentClauses(sent) {
			clTokens, err := c.countClause(cl)
			if err != nil {
				return nil, err
			}
			if err := g.offer(cl, clTokens); err != nil {
				return nil, err
			}
		}
	}

	res.Chunks = g.finish()
	res.Warnings = append(res.Warnings, g.warnings...)
	return res, nil
}

// countClause resolves a clause's token count through the counter cache.
// Counts are computed whenever a counter is available, so sentence-mode
// chunks still carry token metadata when the caller supplied one.
func (c *Chunker) countClause(cl types.Clause) (int, error) {
	if c.counter == nil {
		return 0, nil
	}
	return c.counter.Count(cl.Text)
}
