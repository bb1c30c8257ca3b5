// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/gorm"
)

// ErrInvalidQuantity is returned on the strict path when the quantity is not
// a positive integer
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ErrItemNotInCart is returned when updating a product id the cart does not hold
var ErrItemNotInCart = errors.New("item not in cart")

// Service handles cart business logic
type Service struct {
	sessions       session.Store
	config         *config.Config
	productService *product.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, sessions session.Store, cfg *config.Config) *Service {
	return &Service{
		sessions:       sessions,
		config:         cfg,
		productService: product.NewService(db, cfg),
	}
}

// AddResult reports the cart state after an add
type AddResult struct {
	CartCount    int `json:"cart_count"`
	ItemQuantity int `json:"item_qty"`
}

// UpdateResult reports the cart state after a quantity update or removal
type UpdateResult struct {
	Removed bool `json:"removed,omitempty"`
	Totals
	ItemSubtotal string `json:"item_subtotal,omitempty"`
}

// load reads the cart from the session, treating a missing key as empty
func (s *Service) load(ctx context.Context, sessionID string) (Cart, error) {
	c := Cart{}
	err := s.sessions.Get(ctx, sessionID, SessionKey, &c)
	if err != nil && !errors.Is(err, session.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

// save persists the cart back to the session
func (s *Service) save(ctx context.Context, sessionID string, c Cart) error {
	if err := s.sessions.Set(ctx, sessionID, SessionKey, c); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Get returns the full cart view with per-line subtotals and totals
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]ItemView, 0, len(c))
	for _, pid := range c.SortedIDs() {
		line := c[pid]
		items = append(items, ItemView{
			ProductID: pid,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Subtotal:  line.Subtotal(),
			ImageURL:  line.ImageURL,
		})
	}

	total := c.Total()
	return &View{
		Items:  items,
		Totals: Totals{CartCount: c.Count(), TotalAmount: total},
		Total:  total,
	}, nil
}

// Add puts quantity units of a product into the cart. The first add snapshots
// the product's name, price and image; later adds only increment the stored
// quantity and keep the original snapshot.
func (s *Service) Add(ctx context.Context, sessionID string, productID uint, quantity int) (*AddResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	prod, err := s.productService.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pid := strconv.FormatUint(uint64(prod.ID), 10)
	line, exists := c[pid]
	if exists {
		line.Quantity += quantity
	} else {
		line = Line{
			Quantity: quantity,
			Name:     prod.Name,
			Price:    prod.Price,
			ImageURL: prod.ImageURL,
		}
	}
	c[pid] = line

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return &AddResult{
		CartCount:    c.Count(),
		ItemQuantity: line.Quantity,
	}, nil
}

// SetQuantity overwrites a line's quantity. Zero or negative removes the
// line. The price snapshot is never refreshed here.
func (s *Service) SetQuantity(ctx context.Context, sessionID, pid string, quantity int) (*UpdateResult, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line, exists := c[pid]
	if !exists {
		return nil, ErrItemNotInCart
	}

	result := &UpdateResult{}
	if quantity <= 0 {
		delete(c, pid)
		result.Removed = true
	} else {
		line.Quantity = quantity
		c[pid] = line
		result.ItemSubtotal = line.Subtotal().String()
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	result.Totals = Totals{CartCount: c.Count(), TotalAmount: c.Total()}
	return result, nil
}

// Remove deletes a line unconditionally; removing an absent id is a no-op
func (s *Service) Remove(ctx context.Context, sessionID, pid string) (*UpdateResult, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	delete(c, pid)

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return &UpdateResult{
		Removed: true,
		Totals:  Totals{CartCount: c.Count(), TotalAmount: c.Total()},
	}, nil
}

// RemoveLines deletes a set of lines in one read-modify-write cycle. Used
// after an order commit to clear exactly the purchased items.
func (s *Service) RemoveLines(ctx context.Context, sessionID string, pids []string) error {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	for _, pid := range pids {
		delete(c, pid)
	}

	return s.save(ctx, sessionID, c)
}

// Contents returns the raw cart mapping for other services (staging, commit)
func (s *Service) Contents(ctx context.Context, sessionID string) (Cart, error) {
	return s.load(ctx, sessionID)
}

// Summarize returns the total line count and total monetary amount
func (s *Service) Summarize(ctx context.Context, sessionID string) (*Totals, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Totals{CartCount: c.Count(), TotalAmount: c.Total()}, nil
}
