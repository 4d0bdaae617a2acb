package reconcile

import (
	"cmp"
	"time"
)

// DefaultTimestampField is excluded from content comparison unless an entity
// declares its own exclusions.
const DefaultTimestampField = "LastModified"

// Keyed is the capability every reconciled entity must provide.
type Keyed[K cmp.Ordered] interface {
	// EntityKey returns the key that identifies the entity within a snapshot.
	EntityKey() K
	// EntityModified returns the last modification time, nil when unknown.
	EntityModified() *time.Time
}

// ExclusionProvider is implemented by entities that declare which serialized fields
// are ignored by content comparison. It replaces DefaultTimestampField.
type ExclusionProvider interface {
	ExcludedFields() []string
}

// CanonicalConfigProvider is implemented by entities that canonicalize with their own
// rules instead of the configuration passed in Options.
type CanonicalConfigProvider interface {
	CanonicalConfig() CanonicalConfig
}
