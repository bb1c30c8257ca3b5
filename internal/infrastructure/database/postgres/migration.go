// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: products before order items that reference them
	models := []interface{}{
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedInitialData seeds a starter catalog when the products table is empty.
// Intended for development environments only.
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding initial catalog...")

	products := []product.Product{
		{
			Name:        "Classic T-Shirt",
			Description: "Plain cotton t-shirt",
			Price:       decimal.RequireFromString("9.99"),
			Stock:       100,
			ImageURL:    "/images/tshirt.jpg",
			Status:      product.StatusActive,
		},
		{
			Name:        "Canvas Tote Bag",
			Description: "Reusable shopping tote",
			Price:       decimal.RequireFromString("14.50"),
			Stock:       50,
			ImageURL:    "/images/tote.jpg",
			Status:      product.StatusActive,
		},
		{
			Name:        "Enamel Mug",
			Description: "350ml camping mug",
			Price:       decimal.RequireFromString("12.00"),
			Stock:       75,
			ImageURL:    "/images/mug.jpg",
			Status:      product.StatusActive,
		},
		{
			Name:        "Discontinued Poster",
			Description: "No longer sold",
			Price:       decimal.RequireFromString("5.00"),
			Stock:       0,
			Status:      product.StatusInactive,
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}

	log.Printf("Seeded %d products", len(products))
	return nil
}
