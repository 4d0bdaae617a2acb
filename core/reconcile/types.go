package reconcile

import (
	"cmp"
	"runtime"

	"go.uber.org/zap"
)

// Options configures a reconciliation. It is copied by the engine and never mutated.
type Options[E any] struct {
	// Policy decides whether an incoming entity replaces the existing one.
	Policy Policy

	// Predicate is required by PolicyCustom and must be nil otherwise.
	Predicate func(existing, incoming E) bool

	// IgnoreInserts drops insert candidates from the result.
	IgnoreInserts bool

	// IgnoreUpdates drops update candidates from the result.
	IgnoreUpdates bool

	// IgnoreDeletes drops delete candidates from the result.
	IgnoreDeletes bool

	// ExcludedFields are serialized field names (or dotted paths) ignored by content
	// comparison, in addition to each entity's own exclusions.
	ExcludedFields []string

	// Canonical is the canonicalization config for entities that do not provide one.
	Canonical CanonicalConfig

	// LogComparisons logs every matched-key decision at debug level.
	LogComparisons bool

	// Workers bounds concurrent batch classification. Zero means DefaultWorkers().
	Workers int

	// Logger receives comparison failures and decisions. Nil disables logging.
	Logger *zap.Logger
}

// Validate rejects option combinations that cannot produce a result.
func (o Options[E]) Validate() error {
	if !o.Policy.Valid() {
		return &InvalidConfigurationError{Field: "policy", Reason: "unknown policy " + o.Policy.String()}
	}
	if o.Policy == PolicyCustom && o.Predicate == nil {
		return &InvalidConfigurationError{Field: "predicate", Reason: "custom policy requires a predicate"}
	}
	if o.Policy != PolicyCustom && o.Predicate != nil {
		return &InvalidConfigurationError{Field: "predicate", Reason: "predicate is only valid with the custom policy"}
	}
	if o.Workers < 0 {
		return &InvalidConfigurationError{Field: "workers", Reason: "must not be negative"}
	}
	if _, err := ParseNaming(string(o.Canonical.Naming)); err != nil {
		return err
	}
	return nil
}

// DefaultWorkers returns the batch worker count used when Options.Workers is zero.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Result is the classification produced by a reconciliation.
type Result[K cmp.Ordered, E any] struct {
	// ToInsert holds incoming entities whose key is not in the existing snapshot.
	ToInsert []E `json:"to_insert"`

	// ToUpdate holds incoming entities that replace an existing one.
	ToUpdate []E `json:"to_update"`

	// ToDelete holds keys of existing entities missing from the incoming snapshot.
	ToDelete []K `json:"to_delete"`

	// SortedEntities holds inserts, updates and unchanged entities ordered by key.
	// Unchanged entities are taken from the existing snapshot.
	SortedEntities []E `json:"sorted_entities"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a Result.
type Summary struct {
	// Inserts counts entries in ToInsert.
	Inserts int `json:"inserts"`

	// Updates counts entries in ToUpdate.
	Updates int `json:"updates"`

	// Deletes counts entries in ToDelete.
	Deletes int `json:"deletes"`

	// Unchanged counts matched keys the policy kept.
	Unchanged int `json:"unchanged"`

	// Total counts entries in SortedEntities.
	Total int `json:"total"`

	// ComparisonFailures counts pairs that could not be canonicalized and were
	// treated as changed.
	ComparisonFailures int `json:"comparison_failures"`

	// Policy is the name of the policy that produced the result.
	Policy string `json:"policy"`
}

// InsertCount returns len(ToInsert).
func (r *Result[K, E]) InsertCount() int { return len(r.ToInsert) }

// UpdateCount returns len(ToUpdate).
func (r *Result[K, E]) UpdateCount() int { return len(r.ToUpdate) }

// DeleteCount returns len(ToDelete).
func (r *Result[K, E]) DeleteCount() int { return len(r.ToDelete) }

// UnchangedCount returns the number of matched keys the policy kept.
func (r *Result[K, E]) UnchangedCount() int { return r.Summary.Unchanged }

// TotalCount returns len(SortedEntities).
func (r *Result[K, E]) TotalCount() int { return len(r.SortedEntities) }

// HasChanges reports whether anything needs to be inserted, updated or deleted.
func (r *Result[K, E]) HasChanges() bool {
	return len(r.ToInsert) > 0 || len(r.ToUpdate) > 0 || len(r.ToDelete) > 0
}
