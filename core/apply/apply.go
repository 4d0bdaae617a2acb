package apply

import (
	"cmp"
	"context"
	"fmt"

	"snapshot-sync/core/reconcile"
)

// BuildPlan lists the actions of a result in execution order: deletes, updates, inserts.
func BuildPlan[K cmp.Ordered, E any](runID string, result *reconcile.Result[K, E], key func(E) K) *Plan {
	plan := &Plan{
		RunID:   runID,
		Actions: make([]Action, 0, len(result.ToDelete)+len(result.ToUpdate)+len(result.ToInsert)),
	}

	for _, k := range result.ToDelete {
		plan.Actions = append(plan.Actions, Action{Type: ActionDelete, Key: fmt.Sprint(k)})
	}
	for _, e := range result.ToUpdate {
		plan.Actions = append(plan.Actions, Action{Type: ActionUpdate, Key: fmt.Sprint(key(e))})
	}
	for _, e := range result.ToInsert {
		plan.Actions = append(plan.Actions, Action{Type: ActionInsert, Key: fmt.Sprint(key(e))})
	}

	plan.Summary = PlanSummary{
		Inserts: len(result.ToInsert),
		Updates: len(result.ToUpdate),
		Deletes: len(result.ToDelete),
	}
	return plan
}

// Apply executes a reconcile result through m.
// Returns the number of entities written and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func Apply[K cmp.Ordered, E any](ctx context.Context, m Mutator[K, E], result *reconcile.Result[K, E], opts Options) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	// Deletes first so a store with unique secondary columns can accept re-inserted values.
	if len(result.ToDelete) > 0 {
		if batch, ok := m.(BatchDeleter[K]); ok {
			if err := batch.DeleteBatch(ctx, result.ToDelete); err != nil {
				return executed, fmt.Errorf("failed to batch delete keys: %w", err)
			}
			executed += len(result.ToDelete)
		} else {
			for _, key := range result.ToDelete {
				if err := m.Delete(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete key %v: %w", key, err)
				}
				executed++
			}
		}
	}

	if len(result.ToUpdate) > 0 {
		if batch, ok := m.(BatchUpdater[E]); ok {
			if err := batch.UpdateBatch(ctx, result.ToUpdate); err != nil {
				return executed, fmt.Errorf("failed to batch update entities: %w", err)
			}
			executed += len(result.ToUpdate)
		} else {
			for i, entity := range result.ToUpdate {
				if err := m.Update(ctx, entity); err != nil {
					return executed, fmt.Errorf("failed to update entity %d: %w", i, err)
				}
				executed++
			}
		}
	}

	if len(result.ToInsert) > 0 {
		if batch, ok := m.(BatchInserter[E]); ok {
			if err := batch.InsertBatch(ctx, result.ToInsert); err != nil {
				return executed, fmt.Errorf("failed to batch insert entities: %w", err)
			}
			executed += len(result.ToInsert)
		} else {
			for i, entity := range result.ToInsert {
				if err := m.Insert(ctx, entity); err != nil {
					return executed, fmt.Errorf("failed to insert entity %d: %w", i, err)
				}
				executed++
			}
		}
	}

	return executed, nil
}
