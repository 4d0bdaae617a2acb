// Package apply turns a reconcile.Result into store mutations.
//
// The reconcile core only classifies; this package is the caller-side step that
// executes the classification. A store implements Mutator and may implement the
// batch interfaces, which Apply detects and prefers over one-at-a-time writes.
//
// Execution order is deletes, updates, inserts. Nothing runs unless the options are
// confirmed and not a dry run.
package apply
