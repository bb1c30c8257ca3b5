package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type orderFixture struct {
	svc         *Service
	cartSvc     *cart.Service
	checkoutSvc *checkout.Service
	db          *gorm.DB
}

func setupOrderTest(t *testing.T) *orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Product{}, &Order{}, &OrderItem{}))

	sessions := session.NewMemoryStore()
	cfg := &config.Config{}

	return &orderFixture{
		svc:         NewService(db, sessions, cfg),
		cartSvc:     cart.NewService(db, sessions, cfg),
		checkoutSvc: checkout.NewService(db, sessions, cfg),
		db:          db,
	}
}

func (f *orderFixture) seedStageReady(t *testing.T, id uint, name, price string, qty int) {
	t.Helper()
	require.NoError(t, f.db.Create(&product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  10,
		Status: product.StatusActive,
	}).Error)
	_, err := f.cartSvc.Add(context.Background(), "sess-1", id, qty)
	require.NoError(t, err)
}

var testDetails = &CustomerDetails{
	Name:    "Ada Lovelace",
	Email:   "ada@example.com",
	Phone:   "555-0100",
	Address: "1 Analytical Way",
}

func TestCommitCreatesOrderWithLineSnapshots(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 2)
	f.seedStageReady(t, 2, "Bowl", "4.25", 3)
	ctx := context.Background()

	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1", "2"})
	require.NoError(t, err)

	ord, err := f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", ord.CustomerName)
	assert.True(t, ord.TotalAmount.Equal(decimal.RequireFromString("17.75")))
	require.Len(t, ord.Items, 2)

	// Total equals the sum of line subtotals
	sum := decimal.Zero
	for _, item := range ord.Items {
		sum = sum.Add(item.Subtotal)
		assert.True(t, item.Subtotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
	}
	assert.True(t, ord.TotalAmount.Equal(sum))
}

func TestCommitRemovesOnlyPurchasedLinesFromCart(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 1)
	f.seedStageReady(t, 2, "Bowl", "4.25", 1)
	f.seedStageReady(t, 3, "Plate", "6.00", 1)
	ctx := context.Background()

	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1", "3"})
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	contents, err := f.cartSvc.Contents(ctx, "sess-1")
	require.NoError(t, err)

	assert.NotContains(t, contents, "1")
	assert.NotContains(t, contents, "3")
	assert.Contains(t, contents, "2")
}

func TestCommitClearsSelection(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 1)
	ctx := context.Background()

	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1"})
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	_, err = f.checkoutSvc.ResolveStaged(ctx, "sess-1")
	assert.True(t, errors.Is(err, checkout.ErrNothingStaged))
}

func TestCommitWithNothingStaged(t *testing.T) {
	f := setupOrderTest(t)

	_, err := f.svc.Commit(context.Background(), "sess-1", testDetails)
	assert.True(t, errors.Is(err, checkout.ErrNothingStaged))
}

func TestCommitRollsBackWhenStagedProductVanishes(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 1)
	f.seedStageReady(t, 2, "Bowl", "4.25", 1)
	ctx := context.Background()

	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1", "2"})
	require.NoError(t, err)

	// Product 2 disappears between staging and commit
	require.NoError(t, f.db.Delete(&product.Product{}, 2).Error)

	_, err = f.svc.Commit(ctx, "sess-1", testDetails)
	assert.True(t, errors.Is(err, product.ErrNotFound))

	// No partial order survives the rollback
	var orderCount, itemCount int64
	require.NoError(t, f.db.Model(&Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)

	// Cart is untouched
	contents, err := f.cartSvc.Contents(ctx, "sess-1")
	require.NoError(t, err)
	assert.Contains(t, contents, "1")
	assert.Contains(t, contents, "2")
}

func TestGetOrderNotFound(t *testing.T) {
	f := setupOrderTest(t)

	_, err := f.svc.GetOrder(9999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetOrderLoadsItems(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 2)
	ctx := context.Background()

	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1"})
	require.NoError(t, err)

	created, err := f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	ord, err := f.svc.GetOrder(created.ID)
	require.NoError(t, err)

	require.Len(t, ord.Items, 1)
	assert.Equal(t, uint(1), ord.Items[0].ProductID)
	assert.Equal(t, 2, ord.Items[0].Quantity)
}

func TestListOrdersNewestFirst(t *testing.T) {
	f := setupOrderTest(t)
	f.seedStageReady(t, 1, "Cup", "2.50", 1)
	ctx := context.Background()

	// Two commits from the same cart line require re-adding in between
	_, err := f.checkoutSvc.Stage(ctx, "sess-1", []string{"1"})
	require.NoError(t, err)
	first, err := f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	_, err = f.cartSvc.Add(ctx, "sess-1", 1, 1)
	require.NoError(t, err)
	_, err = f.checkoutSvc.Stage(ctx, "sess-1", []string{"1"})
	require.NoError(t, err)
	second, err := f.svc.Commit(ctx, "sess-1", testDetails)
	require.NoError(t, err)

	result, err := f.svc.List(&ListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, result.Orders, 2)
	ids := []uint{result.Orders[0].ID, result.Orders[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
	assert.Equal(t, int64(2), result.Pagination.Total)
}
