package products

import (
	"context"
	"fmt"
	"strings"

	"snapshot-sync/core/apply"
	"snapshot-sync/core/database"
	"snapshot-sync/core/reconcile"

	"gorm.io/gorm"
)

// defaultInsertBatch is the CreateInBatches chunk size.
const defaultInsertBatch = 200

// Store persists products with gorm. It implements apply.Mutator together with the
// batch interfaces.
type Store struct {
	db          *gorm.DB
	insertBatch int
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, insertBatch: defaultInsertBatch}
}

// Migrate creates or updates the products table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Product{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// CheckSchema verifies the products table has every column the store writes.
func (s *Store) CheckSchema(ctx context.Context) error {
	missing, err := database.MissingColumns(s.db.WithContext(ctx), Product{}.TableName(), Columns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("products table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load returns the existing snapshot ordered by id.
func (s *Store) Load(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// Insert creates one product.
func (s *Store) Insert(ctx context.Context, p Product) error {
	return s.db.WithContext(ctx).Create(&p).Error
}

// Update replaces one product.
func (s *Store) Update(ctx context.Context, p Product) error {
	return s.db.WithContext(ctx).Save(&p).Error
}

// Delete removes one product by id.
func (s *Store) Delete(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Delete(&Product{}, id).Error
}

// InsertBatch creates products in chunks.
func (s *Store) InsertBatch(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(products, s.insertBatch).Error
}

// UpdateBatch replaces every product with one statement each.
func (s *Store) UpdateBatch(ctx context.Context, products []Product) error {
	db := s.db.WithContext(ctx)
	for i := range products {
		if err := db.Save(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to update product %d: %w", products[i].ID, err)
		}
	}
	return nil
}

// DeleteBatch removes products with a single IN clause.
func (s *Store) DeleteBatch(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Product{}).Error
}

// ApplyResult writes a reconcile result in one transaction. Nothing is written
// unless opts is confirmed and not a dry run.
func (s *Store) ApplyResult(ctx context.Context, result *reconcile.Result[int, Product], opts apply.Options) (int, error) {
	if !opts.Confirmed || opts.DryRun || !result.HasChanges() {
		return 0, nil
	}

	var executed int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := apply.Apply[int, Product](ctx, &Store{db: tx, insertBatch: s.insertBatch}, result, opts)
		executed = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply product changes: %w", err)
	}
	return executed, nil
}
