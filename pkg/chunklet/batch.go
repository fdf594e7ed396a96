package chunklet

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// Policy fixes how a batch run treats per-item failures. Policies are
// mutually exclusive and chosen before dispatch, never per item.
type Policy string

const (
	// PolicyRaise aborts the whole batch on the first failure,
	// propagating the fault through BatchIterator.Err.
	PolicyRaise Policy = "raise"
	// PolicySkip drops failed items with a recorded reason and continues
	// delivering the rest in original order.
	PolicySkip Policy = "skip"
	// PolicyBreak halts delivery at the first failure but still delivers
	// every result that precedes it.
	PolicyBreak Policy = "break"
)

// BatchOptions configures a batch run.
type BatchOptions struct {
	Workers int    // Concurrent workers, default runtime.NumCPU()
	Policy  Policy // Failure policy, default PolicyRaise
}

// BatchResult is one successfully chunked item.
type BatchResult struct {
	Index    int // Position of the text in the input slice
	Chunks   []types.Chunk
	Warnings []string
}

// Skipped records a dropped item under PolicySkip.
type Skipped struct {
	Index int
	Err   error
}

// itemSlot holds one item's outcome; done is closed once it is settled.
type itemSlot struct {
	res  *Result
	err  error
	done chan struct{}
}

// BatchIterator delivers batch results lazily in original input order.
// Consumers must call Close when done, even after early abandonment:
// Close cancels outstanding work and blocks until every worker has
// exited, so the pool is released on all exit paths rather than at
// finalization time.
type BatchIterator struct {
	slots   []itemSlot
	policy  Policy
	next    int
	err     error
	skipped []Skipped
	halted  bool

	cancel context.CancelFunc
	group  *errgroup.Group
}

// ChunkBatch chunks each text through the single-text pipeline on a
// worker pool. Each item is independent: the constraint set is validated
// once up front, the splitter registry is read-only for the run, and the
// token-count cache is safely shared.
//
// Results come back in input order regardless of completion order.
func (c *Chunker) ChunkBatch(ctx context.Context, texts []string, cons Constraints, opts BatchOptions) (*BatchIterator, error) {
	if err := cons.Validate(c.counter != nil); err != nil {
		return nil, err
	}
	switch opts.Policy {
	case PolicyRaise, PolicySkip, PolicyBreak:
	case "":
		opts.Policy = PolicyRaise
	default:
		return nil, fmt.Errorf("unknown batch error policy %q", opts.Policy)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	gctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(gctx)

	it := &BatchIterator{
		slots:  make([]itemSlot, len(texts)),
		policy: opts.Policy,
		cancel: cancel,
		group:  g,
	}
	for i := range it.slots {
		it.slots[i].done = make(chan struct{})
	}

	sem := make(chan struct{}, workers)
	for i, text := range texts {
		g.Go(func() error {
			defer close(it.slots[i].done)

			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				it.slots[i].err = gctx.Err()
				return nil
			}
			defer func() { <-sem }()

			res, err := c.Chunk(gctx, text, cons)
			it.slots[i].res = res
			it.slots[i].err = err

			// Under raise the first failure cancels gctx and aborts the
			// remaining workers; under skip and break delivery decides.
			if err != nil && opts.Policy == PolicyRaise {
				return err
			}
			return nil
		})
	}

	return it, nil
}

// Next returns the next result in input order. It blocks until that item
// settles. ok is false once the batch is exhausted, halted by policy, or
// aborted; consult Err and Skipped afterwards.
func (it *BatchIterator) Next() (*BatchResult, bool) {
	for it.next < len(it.slots) && !it.halted && it.err == nil {
		slot := &it.slots[it.next]
		<-slot.done
		idx := it.next
		it.next++

		if slot.err == nil {
			return &BatchResult{
				Index:    idx,
				Chunks:   slot.res.Chunks,
				Warnings: slot.res.Warnings,
			}, true
		}

		switch it.policy {
		case PolicySkip:
			it.skipped = append(it.skipped, Skipped{Index: idx, Err: slot.err})
			continue
		case PolicyBreak:
			it.halted = true
			it.err = slot.err
		default: // PolicyRaise
			it.cancel()
			it.err = it.raiseFault(slot.err)
		}
	}
	return nil, false
}

// raiseFault recovers the originating failure after a raise abort. The
// earliest-settled slot may hold only the cancellation that a later
// failing item triggered, so the group error and the remaining slots are
// preferred over a bare cancellation. The group wait also guarantees
// every slot has settled before the scan.
func (it *BatchIterator) raiseFault(slotErr error) error {
	if !errors.Is(slotErr, context.Canceled) {
		return slotErr
	}
	if err := it.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	for i := range it.slots {
		if err := it.slots[i].err; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return slotErr
}

// Err reports the failure that stopped the run: the propagated fault
// under PolicyRaise, the halting failure under PolicyBreak, nil under
// PolicySkip and on clean completion.
func (it *BatchIterator) Err() error {
	return it.err
}

// Skipped lists items dropped under PolicySkip, each with its reason.
func (it *BatchIterator) Skipped() []Skipped {
	return it.skipped
}

// Close releases the worker pool deterministically: it cancels any
// outstanding work and waits for all workers to exit. Safe to call more
// than once and required on every exit path, including early abandonment.
func (it *BatchIterator) Close() error {
	it.cancel()
	if err := it.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		if it.err == nil || errors.Is(it.err, context.Canceled) {
			it.err = err
		}
	}
	return it.err
}
