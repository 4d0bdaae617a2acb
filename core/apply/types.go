package apply

import "context"

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionInsert creates an entity that only exists in the incoming snapshot.
	ActionInsert ActionType = "insert"
	// ActionUpdate replaces an existing entity with the incoming one.
	ActionUpdate ActionType = "update"
	// ActionDelete removes an entity missing from the incoming snapshot.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity key rendered as text.
	Key string `json:"key"`
}

// Plan lists the mutations derived from a reconcile result.
type Plan struct {
	// RunID identifies the reconciliation run that produced the plan.
	RunID string `json:"run_id"`

	// Actions contains planned mutation operations in execution order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	Inserts int `json:"inserts"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

// Options controls whether a plan is executed.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// Mutator persists one entity at a time. Implementations may additionally implement
// BatchInserter, BatchUpdater and BatchDeleter, which are preferred when present.
type Mutator[K comparable, E any] interface {
	Insert(ctx context.Context, entity E) error
	Update(ctx context.Context, entity E) error
	Delete(ctx context.Context, key K) error
}

// BatchInserter inserts many entities in one call.
type BatchInserter[E any] interface {
	InsertBatch(ctx context.Context, entities []E) error
}

// BatchUpdater updates many entities in one call.
type BatchUpdater[E any] interface {
	UpdateBatch(ctx context.Context, entities []E) error
}

// BatchDeleter deletes many keys in one call.
type BatchDeleter[K comparable] interface {
	DeleteBatch(ctx context.Context, keys []K) error
}
