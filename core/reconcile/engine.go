package reconcile

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
)

// Engine reconciles snapshots of one entity type with a fixed set of options.
// It holds no per-call state and is safe for concurrent use.
type Engine[K cmp.Ordered, E Keyed[K]] struct {
	opts   Options[E]
	canon  *Canonicalizer
	logger *zap.Logger
}

// New validates opts and creates an engine.
func New[K cmp.Ordered, E Keyed[K]](opts Options[E]) (*Engine[K, E], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.ExcludedFields = slices.Clone(opts.ExcludedFields)

	return &Engine[K, E]{
		opts:   opts,
		canon:  NewCanonicalizer(opts.Canonical, opts.ExcludedFields...),
		logger: logger,
	}, nil
}

// Reconcile is a shorthand for New followed by Engine.Reconcile.
func Reconcile[K cmp.Ordered, E Keyed[K]](existing, incoming []E, opts Options[E]) (*Result[K, E], error) {
	engine, err := New[K, E](opts)
	if err != nil {
		return nil, err
	}
	return engine.Reconcile(existing, incoming)
}

// Canonicalizer returns the canonicalizer used for content comparison.
func (e *Engine[K, E]) Canonicalizer() *Canonicalizer {
	return e.canon
}

// Reconcile classifies incoming against existing.
//
// Incoming keys missing from existing are inserts; matched keys are updates when the
// policy says so and unchanged otherwise; existing keys missing from incoming are
// deletes. A key repeated within either snapshot fails the call with a
// *DuplicateKeyError.
func (e *Engine[K, E]) Reconcile(existing, incoming []E) (*Result[K, E], error) {
	existingIndex, err := indexKeys[K](SnapshotExisting, existing)
	if err != nil {
		return nil, err
	}
	incomingIndex, err := indexKeys[K](SnapshotIncoming, incoming)
	if err != nil {
		return nil, err
	}

	cls := e.classify(existing, existingIndex, incoming)
	deletes := deletedKeys(existing, incomingIndex)

	return e.build(cls, deletes), nil
}

// classification holds the per-key outcome for a slice of incoming entities.
type classification[E any] struct {
	inserts   []E
	updates   []E
	unchanged []E
	failures  int
}

func (c *classification[E]) merge(other classification[E]) {
	c.inserts = append(c.inserts, other.inserts...)
	c.updates = append(c.updates, other.updates...)
	c.unchanged = append(c.unchanged, other.unchanged...)
	c.failures += other.failures
}

// classify only reads existing and its index, so batches may run concurrently.
func (e *Engine[K, E]) classify(existing []E, existingIndex map[K]int, incoming []E) classification[E] {
	var cls classification[E]

	for _, in := range incoming {
		key := in.EntityKey()
		pos, found := existingIndex[key]
		if !found {
			cls.inserts = append(cls.inserts, in)
			continue
		}

		current := existing[pos]
		replace, err := e.decide(current, in)
		if err != nil {
			cls.failures++
			e.logger.Warn("Content comparison failed, treating entities as changed",
				zap.Any("key", key),
				zap.Error(err),
			)
		}
		if e.opts.LogComparisons {
			e.logger.Debug("Compared entities",
				zap.Any("key", key),
				zap.Stringer("policy", e.opts.Policy),
				zap.Bool("replace", replace),
			)
		}

		if replace {
			cls.updates = append(cls.updates, in)
		} else {
			cls.unchanged = append(cls.unchanged, current)
		}
	}

	return cls
}

// build applies suppression flags and orders the kept entities by key.
func (e *Engine[K, E]) build(cls classification[E], deletes []K) *Result[K, E] {
	inserts := orEmpty(cls.inserts)
	updates := orEmpty(cls.updates)
	if e.opts.IgnoreInserts {
		inserts = []E{}
	}
	if e.opts.IgnoreUpdates {
		updates = []E{}
	}
	if e.opts.IgnoreDeletes || deletes == nil {
		deletes = []K{}
	}

	sorted := make([]E, 0, len(inserts)+len(updates)+len(cls.unchanged))
	sorted = append(sorted, inserts...)
	sorted = append(sorted, updates...)
	sorted = append(sorted, cls.unchanged...)
	slices.SortFunc(sorted, func(a, b E) int {
		return cmp.Compare(a.EntityKey(), b.EntityKey())
	})

	result := &Result[K, E]{
		ToInsert:       inserts,
		ToUpdate:       updates,
		ToDelete:       deletes,
		SortedEntities: sorted,
		Summary: Summary{
			Inserts:            len(inserts),
			Updates:            len(updates),
			Deletes:            len(deletes),
			Unchanged:          len(cls.unchanged),
			Total:              len(sorted),
			ComparisonFailures: cls.failures,
			Policy:             e.opts.Policy.String(),
		},
	}

	e.logger.Debug("Reconciliation finished",
		zap.Int("inserts", result.Summary.Inserts),
		zap.Int("updates", result.Summary.Updates),
		zap.Int("deletes", result.Summary.Deletes),
		zap.Int("unchanged", result.Summary.Unchanged),
		zap.Int("comparison_failures", result.Summary.ComparisonFailures),
	)

	return result
}

// indexKeys maps every key to its position, rejecting repeated keys.
func indexKeys[K cmp.Ordered, E Keyed[K]](snapshot string, entities []E) (map[K]int, error) {
	index := make(map[K]int, len(entities))
	for i, entity := range entities {
		key := entity.EntityKey()
		if first, dup := index[key]; dup {
			return nil, &DuplicateKeyError{Snapshot: snapshot, Key: key, FirstIndex: first, Index: i}
		}
		index[key] = i
	}
	return index, nil
}

// deletedKeys returns, in existing order, the keys absent from incoming.
func deletedKeys[K cmp.Ordered, E Keyed[K]](existing []E, incoming map[K]int) []K {
	var keys []K
	for _, entity := range existing {
		key := entity.EntityKey()
		if _, ok := incoming[key]; !ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func orEmpty[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}
