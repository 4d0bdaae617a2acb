package apply

import (
	"context"
	"errors"
	"testing"

	"snapshot-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int
	Name string
}

// singleMutator only supports one-at-a-time writes.
type singleMutator struct {
	mock.Mock
}

func (m *singleMutator) Insert(ctx context.Context, entity row) error {
	return m.Called(entity).Error(0)
}

func (m *singleMutator) Update(ctx context.Context, entity row) error {
	return m.Called(entity).Error(0)
}

func (m *singleMutator) Delete(ctx context.Context, key int) error {
	return m.Called(key).Error(0)
}

// batchMutator additionally supports batch writes.
type batchMutator struct {
	singleMutator
}

func (m *batchMutator) InsertBatch(ctx context.Context, entities []row) error {
	return m.Called(entities).Error(0)
}

func (m *batchMutator) UpdateBatch(ctx context.Context, entities []row) error {
	return m.Called(entities).Error(0)
}

func (m *batchMutator) DeleteBatch(ctx context.Context, keys []int) error {
	return m.Called(keys).Error(0)
}

func sampleResult() *reconcile.Result[int, row] {
	return &reconcile.Result[int, row]{
		ToInsert: []row{{ID: 5, Name: "new"}},
		ToUpdate: []row{{ID: 2, Name: "changed"}, {ID: 3, Name: "changed"}},
		ToDelete: []int{1},
	}
}

func TestBuildPlan(t *testing.T) {
	plan := BuildPlan("run-1", sampleResult(), func(r row) int { return r.ID })

	assert.Equal(t, "run-1", plan.RunID)
	assert.Equal(t, []Action{
		{Type: ActionDelete, Key: "1"},
		{Type: ActionUpdate, Key: "2"},
		{Type: ActionUpdate, Key: "3"},
		{Type: ActionInsert, Key: "5"},
	}, plan.Actions)
	assert.Equal(t, PlanSummary{Inserts: 1, Updates: 2, Deletes: 1}, plan.Summary)
}

func TestApply_Guards(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"Not confirmed", Options{}},
		{"Dry run", Options{DryRun: true, Confirmed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(singleMutator)
			executed, err := Apply[int, row](context.Background(), m, sampleResult(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 0, executed)
			m.AssertNotCalled(t, "Insert", mock.Anything)
			m.AssertNotCalled(t, "Delete", mock.Anything)
		})
	}
}

func TestApply_OneAtATime(t *testing.T) {
	m := new(singleMutator)
	m.On("Delete", 1).Return(nil).Once()
	m.On("Update", row{ID: 2, Name: "changed"}).Return(nil).Once()
	m.On("Update", row{ID: 3, Name: "changed"}).Return(nil).Once()
	m.On("Insert", row{ID: 5, Name: "new"}).Return(nil).Once()

	executed, err := Apply[int, row](context.Background(), m, sampleResult(), Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 4, executed)
	m.AssertExpectations(t)
}

func TestApply_PrefersBatches(t *testing.T) {
	m := new(batchMutator)
	m.On("DeleteBatch", []int{1}).Return(nil).Once()
	m.On("UpdateBatch", []row{{ID: 2, Name: "changed"}, {ID: 3, Name: "changed"}}).Return(nil).Once()
	m.On("InsertBatch", []row{{ID: 5, Name: "new"}}).Return(nil).Once()

	executed, err := Apply[int, row](context.Background(), m, sampleResult(), Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 4, executed)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestApply_StopsOnError(t *testing.T) {
	m := new(singleMutator)
	m.On("Delete", 1).Return(nil).Once()
	m.On("Update", row{ID: 2, Name: "changed"}).Return(errors.New("lock timeout")).Once()

	executed, err := Apply[int, row](context.Background(), m, sampleResult(), Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock timeout")
	assert.Equal(t, 1, executed)
	m.AssertNotCalled(t, "Insert", mock.Anything)
}
