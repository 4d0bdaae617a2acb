package reconcile

import (
	"cmp"
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// FromSlice adapts a slice into an incoming stream.
func FromSlice[E any](entities []E) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		for _, e := range entities {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Batches groups a stream into slices of at most size elements. A stream error is
// yielded once with a nil batch and ends the sequence. size must be positive.
func Batches[E any](stream iter.Seq2[E, error], size int) iter.Seq2[[]E, error] {
	return func(yield func([]E, error) bool) {
		batch := make([]E, 0, size)
		for e, err := range stream {
			if err != nil {
				yield(nil, err)
				return
			}
			batch = append(batch, e)
			if len(batch) == size {
				if !yield(batch, nil) {
					return
				}
				batch = make([]E, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(batch, nil)
		}
	}
}

// ReconcileBatched is a shorthand for New followed by Engine.ReconcileBatched.
func ReconcileBatched[K cmp.Ordered, E Keyed[K]](ctx context.Context, existing []E, incoming iter.Seq2[E, error], batchSize int, opts Options[E]) (*Result[K, E], error) {
	engine, err := New[K, E](opts)
	if err != nil {
		return nil, err
	}
	return engine.ReconcileBatched(ctx, existing, incoming, batchSize)
}

// ReconcileBatched reconciles an incoming stream too large to hold at once.
//
// The stream is split into batches of batchSize. Inserts and updates are classified
// per batch on a bounded worker pool and concatenated in batch order. Deletes are
// derived once, after the last batch, from the union of every incoming key, so a key
// that simply belongs to another batch is never reported as deleted. Keys repeated
// across batches fail the call with a *DuplicateKeyError.
func (e *Engine[K, E]) ReconcileBatched(ctx context.Context, existing []E, incoming iter.Seq2[E, error], batchSize int) (*Result[K, E], error) {
	if batchSize <= 0 {
		return nil, &InvalidConfigurationError{Field: "batch_size", Reason: fmt.Sprintf("must be positive, got %d", batchSize)}
	}

	existingIndex, err := indexKeys[K](SnapshotExisting, existing)
	if err != nil {
		return nil, err
	}

	workers := e.opts.Workers
	if workers == 0 {
		workers = DefaultWorkers()
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	// seen accumulates every incoming key with its stream position; it is only
	// touched by this goroutine.
	seen := make(map[K]int)
	var slots []*classification[E]
	position := 0

	fail := func(err error) (*Result[K, E], error) {
		_ = g.Wait()
		return nil, err
	}

	for batch, err := range Batches(incoming, batchSize) {
		if err != nil {
			return fail(fmt.Errorf("failed to read incoming snapshot: %w", err))
		}

		for _, entity := range batch {
			key := entity.EntityKey()
			if first, dup := seen[key]; dup {
				return fail(&DuplicateKeyError{Snapshot: SnapshotIncoming, Key: key, FirstIndex: first, Index: position})
			}
			seen[key] = position
			position++
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			return fail(err)
		}

		slot := &classification[E]{}
		slots = append(slots, slot)
		g.Go(func() error {
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			*slot = e.classify(existing, existingIndex, batch)
			return nil
		})
	}

	// Every batch is known here, so the delete set can be derived while the
	// last batches are still being classified.
	deletes := deletedKeys(existing, seen)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged classification[E]
	for _, slot := range slots {
		merged.merge(*slot)
	}

	e.logger.Debug("Batched reconciliation merged",
		zap.Int("batches", len(slots)),
		zap.Int("batch_size", batchSize),
		zap.Int("incoming", position),
	)

	return e.build(merged, deletes), nil
}
