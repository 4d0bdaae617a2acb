package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Policy selects how a key present in both snapshots is classified.
// The zero value is PolicyContentChanged.
type Policy int

const (
	// PolicyContentChanged replaces when the canonical forms differ.
	PolicyContentChanged Policy = iota
	// PolicyAlwaysReplace always replaces.
	PolicyAlwaysReplace
	// PolicyNeverReplace never replaces.
	PolicyNeverReplace
	// PolicyNewerWins replaces when the incoming timestamp is strictly newer.
	PolicyNewerWins
	// PolicyContentChangedAndNewer requires both a content change and a newer timestamp.
	PolicyContentChangedAndNewer
	// PolicyContentChangedOrNewer requires a content change or a newer timestamp.
	PolicyContentChangedOrNewer
	// PolicyCustom delegates to Options.Predicate.
	PolicyCustom
)

var policyNames = map[Policy]string{
	PolicyContentChanged:         "content-changed",
	PolicyAlwaysReplace:          "always-replace",
	PolicyNeverReplace:           "never-replace",
	PolicyNewerWins:              "newer-wins",
	PolicyContentChangedAndNewer: "content-changed-and-newer",
	PolicyContentChangedOrNewer:  "content-changed-or-newer",
	PolicyCustom:                 "custom",
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// Policies returns every policy in declaration order.
func Policies() []Policy {
	return []Policy{
		PolicyContentChanged,
		PolicyAlwaysReplace,
		PolicyNeverReplace,
		PolicyNewerWins,
		PolicyContentChangedAndNewer,
		PolicyContentChangedOrNewer,
		PolicyCustom,
	}
}

// ParsePolicy converts a configuration name into a Policy. Matching ignores case,
// and underscores may be used instead of dashes.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "" {
		return PolicyContentChanged, nil
	}
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, &InvalidConfigurationError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", s)}
}

// IsNewer applies the newer-wins ordering to two optional timestamps:
// both absent is not newer, only incoming present is newer, only existing present is not.
func IsNewer(existing, incoming *time.Time) bool {
	switch {
	case incoming == nil:
		return false
	case existing == nil:
		return true
	default:
		return incoming.After(*existing)
	}
}

// decide evaluates the configured policy for one matched key.
// A returned error is a recovered *ContentComparisonError; the decision already treats
// the pair as changed.
func (e *Engine[K, E]) decide(existing, incoming E) (bool, error) {
	switch e.opts.Policy {
	case PolicyAlwaysReplace:
		return true, nil
	case PolicyNeverReplace:
		return false, nil
	case PolicyNewerWins:
		return IsNewer(existing.EntityModified(), incoming.EntityModified()), nil
	case PolicyContentChanged:
		return e.contentChanged(existing, incoming)
	case PolicyContentChangedAndNewer:
		changed, err := e.contentChanged(existing, incoming)
		return changed && IsNewer(existing.EntityModified(), incoming.EntityModified()), err
	case PolicyContentChangedOrNewer:
		changed, err := e.contentChanged(existing, incoming)
		return changed || IsNewer(existing.EntityModified(), incoming.EntityModified()), err
	case PolicyCustom:
		return e.opts.Predicate(existing, incoming), nil
	default:
		// Rejected by Options.Validate.
		panic(fmt.Sprintf("reconcile: unhandled policy %v", e.opts.Policy))
	}
}

func (e *Engine[K, E]) contentChanged(existing, incoming E) (bool, error) {
	equal, err := e.canon.Equal(existing, incoming)
	if err != nil {
		if cce, ok := err.(*ContentComparisonError); ok {
			cce.Key = incoming.EntityKey()
		}
		return true, err
	}
	return !equal, nil
}
