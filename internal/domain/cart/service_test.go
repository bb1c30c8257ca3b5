package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Product{}))

	svc := NewService(db, session.NewMemoryStore(), &config.Config{})
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, id uint, name, price string) {
	t.Helper()
	require.NoError(t, db.Create(&product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  10,
		Status: product.StatusActive,
	}).Error)
}

func TestAddSnapshotsProductOnFirstAdd(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 7, "Teapot", "12.50")
	ctx := context.Background()

	result, err := svc.Add(ctx, "sess-1", 7, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CartCount)
	assert.Equal(t, 2, result.ItemQuantity)

	contents, err := svc.Contents(ctx, "sess-1")
	require.NoError(t, err)

	line := contents["7"]
	assert.Equal(t, "Teapot", line.Name)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestAddIncrementsExistingLine(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 7, "Teapot", "12.50")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 7, 2)
	require.NoError(t, err)

	result, err := svc.Add(ctx, "sess-1", 7, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, result.ItemQuantity)
	assert.Equal(t, 5, result.CartCount)
}

func TestAddKeepsPriceSnapshotWhenProductChanges(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 3, "Kettle", "30.00")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 3, 1)
	require.NoError(t, err)

	// Staff reprices the product after the visitor added it
	require.NoError(t, db.Model(&product.Product{}).
		Where("id = ?", 3).
		Update("price", decimal.RequireFromString("45.00")).Error)

	_, err = svc.Add(ctx, "sess-1", 3, 1)
	require.NoError(t, err)

	contents, err := svc.Contents(ctx, "sess-1")
	require.NoError(t, err)

	line := contents["3"]
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("30.00")),
		"price snapshot must not be refreshed, got %s", line.Price)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 1, "Cup", "2.00")

	_, err := svc.Add(context.Background(), "sess-1", 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))

	_, err = svc.Add(context.Background(), "sess-1", 1, -4)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := setupCartTest(t)

	_, err := svc.Add(context.Background(), "sess-1", 404, 1)
	assert.True(t, errors.Is(err, product.ErrNotFound))
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 2, "Bowl", "4.25")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 2, 5)
	require.NoError(t, err)

	result, err := svc.SetQuantity(ctx, "sess-1", "2", 3)
	require.NoError(t, err)

	assert.False(t, result.Removed)
	assert.Equal(t, 3, result.CartCount)
	assert.Equal(t, "12.75", result.ItemSubtotal)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 2, "Bowl", "4.25")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 2, 5)
	require.NoError(t, err)

	result, err := svc.SetQuantity(ctx, "sess-1", "2", 0)
	require.NoError(t, err)
	assert.True(t, result.Removed)

	contents, err := svc.Contents(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotContains(t, contents, "2")
}

func TestSetQuantityAbsentLine(t *testing.T) {
	svc, _ := setupCartTest(t)

	_, err := svc.SetQuantity(context.Background(), "sess-1", "5", 2)
	assert.True(t, errors.Is(err, ErrItemNotInCart))
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 8, "Plate", "6.00")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 8, 1)
	require.NoError(t, err)

	result, err := svc.Remove(ctx, "sess-1", "8")
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, 0, result.CartCount)

	// Removing again is a no-op
	result, err = svc.Remove(ctx, "sess-1", "8")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CartCount)
}

func TestSummarizeTotals(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 1, "Cup", "2.50")
	seedProduct(t, db, 2, "Bowl", "4.25")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "sess-1", 2, 3)
	require.NoError(t, err)

	totals, err := svc.Summarize(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, 5, totals.CartCount)
	assert.True(t, totals.TotalAmount.Equal(decimal.RequireFromString("17.75")))
}

func TestGetReturnsLinesInNumericOrder(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 10, "Ten", "1.00")
	seedProduct(t, db, 2, "Two", "1.00")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", 10, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "sess-1", 2, 1)
	require.NoError(t, err)

	view, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "2", view.Items[0].ProductID)
	assert.Equal(t, "10", view.Items[1].ProductID)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	svc, db := setupCartTest(t)
	seedProduct(t, db, 1, "Cup", "2.00")
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-a", 1, 1)
	require.NoError(t, err)

	totals, err := svc.Summarize(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, 0, totals.CartCount)
}
