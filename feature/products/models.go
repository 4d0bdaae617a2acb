package products

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the entity reconciled by the products feature.
type Product struct {
	ID           int             `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name         string          `json:"name" gorm:"column:name;size:255;not null"`
	Price        decimal.Decimal `json:"price" gorm:"column:price;type:decimal(12,2);not null"`
	CategoryID   int             `json:"category_id" gorm:"column:category_id;index"`
	LastModified *time.Time      `json:"last_modified,omitempty" gorm:"column:last_modified"`
}

// TableName overrides the table name used by Product.
func (Product) TableName() string {
	return "products"
}

// EntityKey returns the product id.
func (p Product) EntityKey() int { return p.ID }

// EntityModified returns the last modification time, if known.
func (p Product) EntityModified() *time.Time { return p.LastModified }

func (p Product) String() string {
	modified := "never"
	if p.LastModified != nil {
		modified = p.LastModified.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("Product %d: %s - $%s (Cat: %d, Modified: %s)",
		p.ID, p.Name, p.Price.StringFixed(2), p.CategoryID, modified)
}

// Columns lists the columns the store expects in the products table.
var Columns = []string{"id", "name", "price", "category_id", "last_modified"}
