// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout staging and commit endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	orderService    *order.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, sessions session.Store, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(db, sessions, cfg),
		orderService:    order.NewService(db, sessions, cfg),
		config:          cfg,
	}
}

// StageRequest represents the ids selected for checkout. The selected field
// accepts repeated form fields, a JSON array, or a comma-separated string.
type StageRequest struct {
	Selected []string `json:"selected" form:"selected"`
}

// Stage handles POST /cart/checkout - records which cart lines the visitor
// wants to buy. Empty or unknown selections are expected user paths and
// come back as structured failures, not errors.
func (h *CheckoutHandler) Stage(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	var req StageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_request",
		})
		return
	}

	result, err := h.checkoutService.Stage(c.Request.Context(), sessionID, splitSelected(req.Selected))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoItemsSelected):
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   "no_items_selected",
			})
		case errors.Is(err, checkout.ErrNoItemsInCart):
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   "no_items_in_cart",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to stage checkout",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": result.Redirect,
	})
}

// GetCheckout handles GET /checkout - the resolved staged items with their
// subtotals and grand total. With nothing staged the visitor is sent back
// to the cart with a warning.
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	staged, err := h.checkoutService.ResolveStaged(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrNothingStaged) {
			c.JSON(http.StatusOK, gin.H{
				"success":  false,
				"redirect": "/cart",
				"warning":  "Please select at least one item to checkout.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve checkout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout resolved successfully",
		"data":    staged,
	})
}

// Commit handles POST /checkout - creates the order from the staged items
// and the buyer details, then reports the order id for confirmation.
func (h *CheckoutHandler) Commit(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	// Missing buyer fields bind to empty strings; they are not fatal.
	var details order.CustomerDetails
	if err := c.ShouldBind(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_request",
		})
		return
	}

	ord, err := h.orderService.Commit(c.Request.Context(), sessionID, &details)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNothingStaged):
			c.JSON(http.StatusOK, gin.H{
				"success":  false,
				"redirect": "/cart",
				"warning":  "Please select at least one item to checkout.",
			})
		case errors.Is(err, product.ErrNotFound):
			// A staged product vanished before commit; the transaction
			// rolled back and the cart is untouched.
			c.JSON(http.StatusConflict, gin.H{
				"success":  false,
				"error":    "checkout_failed",
				"redirect": "/cart",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to commit order",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order_id": ord.ID,
		"redirect": "/order/" + itoa(ord.ID),
	})
}

// splitSelected expands comma-separated entries so both repeated form fields
// and a single "1,2,3" value are accepted.
func splitSelected(selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, entry := range selected {
		for _, id := range strings.Split(entry, ",") {
			if id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}
