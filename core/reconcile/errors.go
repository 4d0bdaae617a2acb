package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey matches any *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidConfiguration matches any *InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrContentComparison matches any *ContentComparisonError.
	ErrContentComparison = errors.New("content comparison failed")
)

// Snapshot names used in error reports.
const (
	SnapshotExisting = "existing"
	SnapshotIncoming = "incoming"
)

// DuplicateKeyError is returned when a key appears more than once within one snapshot.
// The whole call fails; no partial result is produced.
type DuplicateKeyError struct {
	// Snapshot is either SnapshotExisting or SnapshotIncoming.
	Snapshot string
	// Key is the repeated key.
	Key any
	// FirstIndex is the position of the first occurrence.
	FirstIndex int
	// Index is the position of the repeated occurrence.
	Index int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %v in %s snapshot (positions %d and %d)", e.Key, e.Snapshot, e.FirstIndex, e.Index)
}

// Is reports whether target is ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// InvalidConfigurationError is returned for options that can never produce a result,
// e.g. the custom policy without a predicate or a non-positive batch size.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ContentComparisonError reports that an entity could not be canonicalized.
// The engine recovers from it by treating the pair as changed.
type ContentComparisonError struct {
	// Key of the entity pair, nil when unknown.
	Key any
	// Side is SnapshotExisting or SnapshotIncoming, empty when unknown.
	Side string
	// Err is the underlying serialization or normalization failure.
	Err error
}

func (e *ContentComparisonError) Error() string {
	switch {
	case e.Key != nil && e.Side != "":
		return fmt.Sprintf("content comparison failed for key %v (%s): %v", e.Key, e.Side, e.Err)
	case e.Side != "":
		return fmt.Sprintf("content comparison failed (%s): %v", e.Side, e.Err)
	default:
		return fmt.Sprintf("content comparison failed: %v", e.Err)
	}
}

func (e *ContentComparisonError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrContentComparison.
func (e *ContentComparisonError) Is(target error) bool {
	return target == ErrContentComparison
}
