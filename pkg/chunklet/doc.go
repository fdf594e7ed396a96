// Package chunklet segments text into bounded, context-preserving chunks
// for retrieval and LLM pipelines.
//
// The pipeline runs in three stages: a sentence splitter (resolved
// through pkg/splitter) produces sentences, each sentence is segmented
// into punctuation-delimited clauses, and a grouping state machine packs
// the clauses into chunks that respect the configured constraints, with
// controlled overlap carried between consecutive chunks.
//
// # Single text
//
//	ch := chunklet.New(chunklet.WithTokenCounter(counter))
//	res, err := ch.Chunk(ctx, text, chunklet.Constraints{
//	    Mode:       chunklet.ModeHybrid,
//	    MaxTokens:  256,
//	    MaxSentences: 8,
//	    OverlapPct: 20,
//	})
//
// # Batch
//
//	it, err := ch.ChunkBatch(ctx, texts, cons, chunklet.BatchOptions{
//	    Workers: 8,
//	    Policy:  chunklet.PolicySkip,
//	})
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for r, ok := it.Next(); ok; r, ok = it.Next() {
//	    use(r)
//	}
//
// # Guarantees
//
//   - Clause order within a chunk equals source order; no clause is
//     dropped or duplicated outside the deliberate overlap seed.
//   - A clause whose token count alone exceeds the limit is emitted as
//     its own flagged chunk (or a hard fault in strict operation) rather
//     than stalling the state machine.
//   - Chunk boundaries are deterministic for identical input, constraints,
//     and token counter.
//   - Grouping is pure computation: the only blocking external call is
//     the token counter, and the only cross-call state is its cache.
package chunklet
