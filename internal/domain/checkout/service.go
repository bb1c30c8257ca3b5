// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/gorm"
)

// SelectionKey is the session store key the checkout selection lives under
const SelectionKey = "selected_for_checkout"

// ErrNoItemsSelected is returned when staging with an empty id list
var ErrNoItemsSelected = errors.New("no items selected")

// ErrNoItemsInCart is returned when none of the selected ids are in the cart
var ErrNoItemsInCart = errors.New("no selected items in cart")

// ErrNothingStaged is returned when checkout is opened without a usable
// selection; callers redirect back to the cart instead of failing hard
var ErrNothingStaged = errors.New("nothing staged for checkout")

// Service handles checkout staging: narrowing the cart to the subset of
// items the visitor wants to purchase in this checkout attempt.
type Service struct {
	sessions    session.Store
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, sessions session.Store, cfg *config.Config) *Service {
	return &Service{
		sessions:    sessions,
		config:      cfg,
		cartService: cart.NewService(db, sessions, cfg),
	}
}

// StageResult signals a successful staging and where to go next
type StageResult struct {
	Redirect string `json:"redirect"`
}

// StagedItem is a cart line resolved for checkout with its subtotal
type StagedItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url"`
}

// StagedOrder is the resolved selection ready for commit
type StagedOrder struct {
	Items []StagedItem    `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Stage records the subset of cart ids selected for checkout. Ids are
// trimmed and deduplicated; ids not present in the cart are dropped. The
// surviving selection is persisted in the session.
func (s *Service) Stage(ctx context.Context, sessionID string, ids []string) (*StageResult, error) {
	normalized := normalizeIDs(ids)
	if len(normalized) == 0 {
		return nil, ErrNoItemsSelected
	}

	contents, err := s.cartService.Contents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	selection := make([]string, 0, len(normalized))
	for _, pid := range normalized {
		if _, ok := contents[pid]; ok {
			selection = append(selection, pid)
		}
	}
	if len(selection) == 0 {
		return nil, ErrNoItemsInCart
	}

	if err := s.sessions.Set(ctx, sessionID, SelectionKey, selection); err != nil {
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}

	return &StageResult{Redirect: "/checkout"}, nil
}

// ResolveStaged re-reads the selection and filters it against the current
// cart. Items removed from the cart between staging and checkout silently
// drop out; an empty result is ErrNothingStaged.
func (s *Service) ResolveStaged(ctx context.Context, sessionID string) (*StagedOrder, error) {
	var selection []string
	err := s.sessions.Get(ctx, sessionID, SelectionKey, &selection)
	if err != nil && !errors.Is(err, session.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	if len(selection) == 0 {
		return nil, ErrNothingStaged
	}

	contents, err := s.cartService.Contents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]StagedItem, 0, len(selection))
	total := decimal.Zero
	for _, pid := range selection {
		line, ok := contents[pid]
		if !ok {
			continue
		}
		subtotal := line.Subtotal()
		items = append(items, StagedItem{
			ProductID: pid,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Subtotal:  subtotal,
			ImageURL:  line.ImageURL,
		})
		total = total.Add(subtotal)
	}
	if len(items) == 0 {
		return nil, ErrNothingStaged
	}

	return &StagedOrder{
		Items: items,
		Total: total.Round(2),
	}, nil
}

// ClearSelection drops the staged selection, typically after a commit
func (s *Service) ClearSelection(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID, SelectionKey)
}

// normalizeIDs trims ids, drops empties and deduplicates preserving order
func normalizeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		normalized = append(normalized, id)
	}
	return normalized
}
