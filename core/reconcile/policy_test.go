package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name     string
		existing *time.Time
		incoming *time.Time
		want     bool
	}{
		{"Both absent", nil, nil, false},
		{"Existing absent", nil, at(1), true},
		{"Incoming absent", at(1), nil, false},
		{"Incoming newer", at(1), at(2), true},
		{"Incoming older", at(2), at(1), false},
		{"Equal timestamps", at(2), at(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewer(tt.existing, tt.incoming))
		})
	}
}

func TestPolicies_Decisions(t *testing.T) {
	type pair struct {
		existing item
		incoming item
	}

	// Keys 1..4 cover the four combinations of "content changed" and "incoming newer".
	pairs := []pair{
		{item{ID: 1, Value: "a", LastModified: at(10)}, item{ID: 1, Value: "a", LastModified: at(5)}},  // same, older
		{item{ID: 2, Value: "a", LastModified: at(10)}, item{ID: 2, Value: "a", LastModified: at(20)}}, // same, newer
		{item{ID: 3, Value: "a", LastModified: at(10)}, item{ID: 3, Value: "b", LastModified: at(5)}},  // changed, older
		{item{ID: 4, Value: "a", LastModified: at(10)}, item{ID: 4, Value: "b", LastModified: at(20)}}, // changed, newer
	}

	var existing, incoming []item
	for _, p := range pairs {
		existing = append(existing, p.existing)
		incoming = append(incoming, p.incoming)
	}

	tests := []struct {
		policy    Policy
		predicate func(e, i item) bool
		want      []int
	}{
		{policy: PolicyAlwaysReplace, want: []int{1, 2, 3, 4}},
		{policy: PolicyNeverReplace, want: []int{}},
		{policy: PolicyNewerWins, want: []int{2, 4}},
		{policy: PolicyContentChanged, want: []int{3, 4}},
		{policy: PolicyContentChangedAndNewer, want: []int{4}},
		{policy: PolicyContentChangedOrNewer, want: []int{2, 3, 4}},
		{
			policy:    PolicyCustom,
			predicate: func(e, i item) bool { return i.ID%2 == 1 },
			want:      []int{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			result, err := Reconcile[int](existing, incoming, Options[item]{Policy: tt.policy, Predicate: tt.predicate})
			require.NoError(t, err)

			assert.Equal(t, tt.want, keys(result.ToUpdate))
			assert.Equal(t, 4-len(tt.want), result.Summary.Unchanged)
			assert.Empty(t, result.ToInsert)
			assert.Empty(t, result.ToDelete)
		})
	}
}

func TestPolicy_ContentChangedAndNewerWithComparisonFailure(t *testing.T) {
	// A failed comparison counts as changed, so the timestamp decides.
	existing := []fragile{{ID: 1}}
	incoming := []fragile{{ID: 1, Broken: true}}

	result, err := Reconcile[int](existing, incoming, Options[fragile]{Policy: PolicyContentChangedOrNewer})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, keys(result.ToUpdate))

	result, err = Reconcile[int](existing, incoming, Options[fragile]{Policy: PolicyContentChangedAndNewer})
	require.NoError(t, err)
	assert.Empty(t, result.ToUpdate, "fragile has no timestamps, so it is never newer")
	assert.Equal(t, 1, result.Summary.ComparisonFailures)
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		t.Run(p.String(), func(t *testing.T) {
			parsed, err := ParsePolicy(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, parsed)
		})
	}

	t.Run("Aliases", func(t *testing.T) {
		parsed, err := ParsePolicy(" Newer_Wins ")
		require.NoError(t, err)
		assert.Equal(t, PolicyNewerWins, parsed)

		parsed, err = ParsePolicy("")
		require.NoError(t, err)
		assert.Equal(t, PolicyContentChanged, parsed)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParsePolicy("last-writer")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})
}
