// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the referenced order does not exist
var ErrNotFound = errors.New("order not found")

// Service handles order commits and lookups
type Service struct {
	db              *gorm.DB
	config          *config.Config
	cartService     *cart.Service
	checkoutService *checkout.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, sessions session.Store, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		cartService:     cart.NewService(db, sessions, cfg),
		checkoutService: checkout.NewService(db, sessions, cfg),
	}
}

// CustomerDetails are the buyer-supplied contact and shipping fields.
// Missing fields bind to empty strings; form-level validation is the UI's
// concern, not a commit precondition.
type CustomerDetails struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ListResponse represents a paginated order listing
type ListResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination product.Pagination `json:"pagination"`
}

// Commit turns the staged selection into a persisted order. The order row
// and all of its lines are written in one transaction; any missing product
// (deleted between staging and commit) rolls the whole transaction back so
// no partial order survives. Only after the transaction commits are the
// purchased ids removed from the cart and the selection cleared.
func (s *Service) Commit(ctx context.Context, sessionID string, details *CustomerDetails) (*Order, error) {
	staged, err := s.checkoutService.ResolveStaged(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ord := Order{
		CustomerName:    details.Name,
		CustomerEmail:   details.Email,
		CustomerPhone:   details.Phone,
		ShippingAddress: details.Address,
		TotalAmount:     staged.Total,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range staged.Items {
			productID, err := strconv.ParseUint(item.ProductID, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", item.ProductID, product.ErrNotFound)
			}

			// Re-fetch inside the transaction: the product may have been
			// deleted between staging and commit.
			var prod product.Product
			if err := tx.First(&prod, uint(productID)).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %s vanished before commit: %w", item.ProductID, product.ErrNotFound)
				}
				return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}

			orderItem := OrderItem{
				OrderID:   ord.ID,
				ProductID: prod.ID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
				Subtotal:  item.Subtotal,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Session cleanup happens after the transaction: remove exactly the
	// purchased ids, leave the rest of the cart untouched.
	pids := make([]string, 0, len(staged.Items))
	for _, item := range staged.Items {
		pids = append(pids, item.ProductID)
	}
	if err := s.cartService.RemoveLines(ctx, sessionID, pids); err != nil {
		return nil, fmt.Errorf("order %d created but cart cleanup failed: %w", ord.ID, err)
	}
	if err := s.checkoutService.ClearSelection(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("order %d created but selection cleanup failed: %w", ord.ID, err)
	}

	if err := s.db.Preload("Items").First(&ord, ord.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load created order: %w", err)
	}

	return &ord, nil
}

// GetOrder retrieves a single order with its lines for confirmation display
func (s *Service) GetOrder(id uint) (*Order, error) {
	var ord Order
	result := s.db.Preload("Items").Where("id = ?", id).First(&ord)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &ord, nil
}

// List retrieves orders for the management console, newest first
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	page := req.Page
	limit := req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items")

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders: orders,
		Pagination: product.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}
