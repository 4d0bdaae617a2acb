// Package reconcile computes the insert/update/delete classification needed to
// synchronize an "existing" snapshot of keyed entities with an "incoming" one.
//
// The package is pure: it never persists, never performs I/O and never retains or
// mutates its inputs. Applying a Result against a store is the caller's job
// (see package apply).
//
// # Architecture
//
// The reconcile system consists of four components:
//
//  1. Canonicalizer: Serializes an entity to JSON, removes excluded fields, rewrites
//     names, normalizes numbers and strings, and renders object keys in lexicographic
//     order. Two entities are content-equal when their canonical forms are byte-equal.
//
//  2. Policy: A closed set of rules deciding whether an incoming entity replaces the
//     existing one for a matched key (always, never, newer-wins, content-changed and
//     its and/or combinations with newer-wins, or a caller predicate).
//
//  3. Engine: Builds key indices for both snapshots, classifies every incoming entity
//     as insert, update or unchanged, derives deletes, applies suppression flags and
//     orders the kept entities by key.
//
//  4. Batch combinator: Splits a large incoming stream into batches classified on a
//     bounded worker pool. Deletes are derived once from the union of all incoming
//     keys, never per batch.
//
// # Errors
//
// Structural problems abort the call: a key repeated within one snapshot returns a
// *DuplicateKeyError, unusable options return an *InvalidConfigurationError. An
// entity that cannot be canonicalized does not abort anything: the pair is treated
// as changed, the *ContentComparisonError is logged and counted in the summary.
//
// # Usage Example
//
//	engine, err := reconcile.New[int, products.Product](reconcile.Options[products.Product]{
//	    Policy:         reconcile.PolicyContentChanged,
//	    ExcludedFields: []string{"updated_by"},
//	    Logger:         logger,
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Whole snapshots in memory
//	result, err := engine.Reconcile(existing, incoming)
//
//	// Incoming snapshot streamed in batches of 1000
//	result, err = engine.ReconcileBatched(ctx, existing, reconcile.FromSlice(incoming), 1000)
//
// # Entities
//
// An entity implements Keyed. Content comparison works on the JSON encoding of the
// entity; by default the LastModified field is excluded. Entities can replace the
// default exclusions with ExclusionProvider and bring their own canonicalization
// rules with CanonicalConfigProvider.
package reconcile
