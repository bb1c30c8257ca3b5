package product

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Product{}))

	// Minimal order_items table for reference counting; the real schema
	// lives in the order package.
	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL
);`).Error)

	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, &config.Config{}), db
}

func mustCreate(t *testing.T, db *gorm.DB, name, price, status string, createdAt time.Time) *Product {
	t.Helper()
	prod := &Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(prod).Error)
	return prod
}

func TestListActiveFiltersInactiveAndOrdersNewestFirst(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mustCreate(t, db, "Old Widget", "5.00", StatusActive, base)
	mustCreate(t, db, "New Widget", "7.50", StatusActive, base.Add(time.Hour))
	mustCreate(t, db, "Hidden Widget", "9.00", StatusInactive, base.Add(2*time.Hour))

	products, err := svc.ListActive()
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "New Widget", products[0].Name)
	assert.Equal(t, "Old Widget", products[1].Name)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(9999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateDefaultsStatusAndRoundsPrice(t *testing.T) {
	svc, _ := newTestService(t)

	prod, err := svc.Create(&CreateRequest{
		Name:  "Mug",
		Price: decimal.RequireFromString("12.999"),
		Stock: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusActive, prod.Status)
	assert.True(t, prod.Price.Equal(decimal.RequireFromString("13.00")),
		"expected 13.00, got %s", prod.Price)
	assert.True(t, prod.IsActive())
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, db := newTestService(t)
	prod := mustCreate(t, db, "Lamp", "20.00", StatusActive, time.Now().UTC())

	newPrice := decimal.RequireFromString("25.50")
	updated, err := svc.Update(prod.ID, &UpdateRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, "Lamp", updated.Name)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, prod.Stock, updated.Stock)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Ghost"
	_, err := svc.Update(4242, &UpdateRequest{Name: &name})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteRemovesUnreferencedProduct(t *testing.T) {
	svc, db := newTestService(t)
	prod := mustCreate(t, db, "Chair", "30.00", StatusActive, time.Now().UTC())

	require.NoError(t, svc.Delete(prod.ID))

	_, err := svc.GetProduct(prod.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteProtectedWhenOrderLinesReferenceIt(t *testing.T) {
	svc, db := newTestService(t)
	prod := mustCreate(t, db, "Table", "99.99", StatusActive, time.Now().UTC())

	require.NoError(t, db.Exec(
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
		 VALUES (1, ?, 2, 99.99, 199.98)`, prod.ID).Error)

	err := svc.Delete(prod.ID)
	assert.True(t, errors.Is(err, ErrInUse))

	// Still present
	_, err = svc.GetProduct(prod.ID)
	assert.NoError(t, err)
}

func TestListPaginates(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreate(t, db, "P", "1.00", StatusActive, base.Add(time.Duration(i)*time.Minute))
	}

	result, err := svc.List(2, 2)
	require.NoError(t, err)

	assert.Len(t, result.Products, 2)
	assert.Equal(t, int64(5), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
}
