// internal/domain/cart/entity.go
package cart

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// SessionKey is the session store key the cart lives under
const SessionKey = "cart"

// Line is one product's entry in the cart, keyed by the product id in string
// form. Name, price and image are snapshots taken when the line was first
// added; they are deliberately never refreshed when the product changes
// later, so order totals reflect the price the visitor saw.
type Line struct {
	Quantity int             `json:"qty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

// Subtotal returns quantity times the unit price snapshot
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product ids (string form) to their lines. Lines always carry a
// quantity of at least 1; a quantity dropping to zero removes the line.
type Cart map[string]Line

// Count returns the sum of quantities across all lines
func (c Cart) Count() int {
	count := 0
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// Total returns the monetary total across all lines, rounded to 2 decimals
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total.Round(2)
}

// SortedIDs returns the cart's product ids in ascending numeric order, so
// views and tests see lines in a stable order.
func (c Cart) SortedIDs() []string {
	ids := make([]string, 0, len(c))
	for pid := range c {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseUint(ids[i], 10, 64)
		b, _ := strconv.ParseUint(ids[j], 10, 64)
		return a < b
	})
	return ids
}

// ItemView is a cart line decorated with its id and subtotal for rendering
type ItemView struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url"`
}

// View represents the full cart with computed subtotals
type View struct {
	Items  []ItemView      `json:"items"`
	Totals Totals          `json:"totals"`
	Total  decimal.Decimal `json:"total"`
}

// Totals represents the cart summary counters
type Totals struct {
	CartCount   int             `json:"cart_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
