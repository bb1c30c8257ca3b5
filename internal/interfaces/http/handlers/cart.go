// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, sessions session.Store, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, sessions, cfg),
		config:      cfg,
	}
}

// AddToCartRequest represents the strict add-to-cart body
type AddToCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents a cart line update
type UpdateCartItemRequest struct {
	Action   string `json:"action" binding:"omitempty,oneof=update remove"`
	Quantity *int   `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	view, err := h.cartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddToCart handles POST /cart/items/:id - the strict path: a malformed or
// non-positive quantity is rejected with 400 and nothing is mutated.
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quantity",
		})
		return
	}

	result, err := h.cartService.Add(c.Request.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		if errors.Is(err, cart.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid quantity",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"cart_count": result.CartCount,
		"item_qty":   result.ItemQuantity,
	})
}

// AddToCartForm handles POST /products/:id/add - the lenient form fallback:
// a missing or malformed quantity defaults to 1 and the visitor is sent to
// the cart page.
func (h *CartHandler) AddToCartForm(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	if _, err := h.cartService.Add(c.Request.Context(), sessionID, productID, quantity); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/cart")
}

// UpdateCartItem handles PUT /cart/items/:id - strict path. An unknown
// product id in the cart is a client error here.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)
	pid := c.Param("id")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	var result *cart.UpdateResult
	var err error
	if req.Action == "remove" {
		// Removing through the strict path still requires the line to exist
		result, err = h.cartService.SetQuantity(c.Request.Context(), sessionID, pid, 0)
	} else {
		if req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid quantity",
			})
			return
		}
		result, err = h.cartService.SetQuantity(c.Request.Context(), sessionID, pid, *req.Quantity)
	}

	if err != nil {
		if errors.Is(err, cart.ErrItemNotInCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Item not in cart",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
		return
	}

	response := gin.H{
		"success":      true,
		"cart_count":   result.CartCount,
		"total_amount": result.TotalAmount,
	}
	if result.Removed {
		response["removed"] = true
	} else {
		response["item_subtotal"] = result.ItemSubtotal
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCartItemForm handles POST /cart/update/:id - the lenient form
// fallback. A malformed quantity defaults to 1 and updates to ids no longer
// in the cart are silently ignored.
func (h *CartHandler) UpdateCartItemForm(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)
	pid := c.Param("id")

	var err error
	if c.PostForm("action") == "remove" {
		_, err = h.cartService.Remove(c.Request.Context(), sessionID, pid)
	} else {
		quantity, convErr := strconv.Atoi(c.PostForm("quantity"))
		if convErr != nil {
			quantity = 1
		}
		_, err = h.cartService.SetQuantity(c.Request.Context(), sessionID, pid, quantity)
		if errors.Is(err, cart.ErrItemNotInCart) {
			err = nil
		}
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)
	pid := c.Param("id")

	result, err := h.cartService.Remove(c.Request.Context(), sessionID, pid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove item from cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"removed":      true,
		"cart_count":   result.CartCount,
		"total_amount": result.TotalAmount,
	})
}

// GetCartSummary handles GET /cart/summary
func (h *CartHandler) GetCartSummary(c *gin.Context) {
	sessionID := getOrCreateSessionID(c, h.config)

	totals, err := h.cartService.Summarize(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to summarize cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_count":   totals.CartCount,
		"total_amount": totals.TotalAmount,
	})
}

// parseProductID parses the :id path parameter, writing a 400 on failure
func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return uint(id), true
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
