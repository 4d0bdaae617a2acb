package products

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"snapshot-sync/core/apply"
	"snapshot-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// openTestDB creates an empty in-memory SQLite database.
func openTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// setupTestDB creates a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	db := openTestDB(t)
	require.NoError(t, NewStore(db).Migrate(context.Background()))
	return db
}

func TestStore_LoadQuery(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "category_id", "last_modified"}).
		AddRow(1, "Lamp", "12.50", 2, nil).
		AddRow(2, "Desk", "99.00", 3, nil)
	mock.ExpectQuery("SELECT \\* FROM `products` ORDER BY id").WillReturnRows(rows)

	products, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Lamp", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteBatchQuery(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `products` WHERE id IN \\(\\?,\\?\\)").
		WithArgs(3, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, NewStore(db).DeleteBatch(context.Background(), []int{3, 4}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ApplyResultRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `products`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	result := &reconcile.Result[int, Product]{ToDelete: []int{7}}
	n, err := NewStore(db).ApplyResult(context.Background(), result, apply.Options{Confirmed: true})

	assert.ErrorContains(t, err, "lock wait timeout")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ApplyResultDryRun(t *testing.T) {
	db, mock := setupMockDB(t)

	result := &reconcile.Result[int, Product]{ToDelete: []int{7}}
	n, err := NewStore(db).ApplyResult(context.Background(), result, apply.Options{Confirmed: true, DryRun: true})

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CheckSchema(t *testing.T) {
	t.Run("Migrated", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NoError(t, NewStore(db).CheckSchema(context.Background()))
	})

	t.Run("Legacy table", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.Exec("CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, price REAL)").Error)

		err := NewStore(db).CheckSchema(context.Background())
		assert.ErrorContains(t, err, "category_id, last_modified")
	})
}

func TestStore_SingleMutations(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, Product{ID: 1, Name: "Lamp", Price: decimal.RequireFromString("10"), CategoryID: 1, LastModified: &now}))
	require.NoError(t, store.Insert(ctx, Product{ID: 2, Name: "Desk", Price: decimal.RequireFromString("20"), CategoryID: 2}))
	require.NoError(t, store.Update(ctx, Product{ID: 1, Name: "Lamp XL", Price: decimal.RequireFromString("12.5"), CategoryID: 1}))
	require.NoError(t, store.Delete(ctx, 2))

	products, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp XL", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("12.5")))
}

// TestStore_ApplyResultConverges checks that applying a result makes the store
// content-equal to the incoming snapshot.
func TestStore_ApplyResultConverges(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	gen := NewGenerator(rand.New(rand.NewPCG(7, 11)), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	base := gen.Products(60)
	require.NoError(t, store.InsertBatch(ctx, base))

	incoming := gen.Scenario(base, ScenarioLarge)

	existing, err := store.Load(ctx)
	require.NoError(t, err)
	result, err := reconcile.Reconcile[int](existing, incoming, reconcile.Options[Product]{})
	require.NoError(t, err)
	require.True(t, result.HasChanges())

	n, err := store.ApplyResult(ctx, result, apply.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, result.InsertCount()+result.UpdateCount()+result.DeleteCount(), n)

	after, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(incoming))

	again, err := reconcile.Reconcile[int](after, incoming, reconcile.Options[Product]{})
	require.NoError(t, err)
	assert.False(t, again.HasChanges())
}
