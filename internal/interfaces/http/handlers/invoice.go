// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// InvoiceHandler handles invoice rendering for placed orders
type InvoiceHandler struct {
	orderService   *order.Service
	productService *product.Service
	pdfService     *pdf.Service
	config         *config.Config
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, sessions session.Store, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		orderService:   order.NewService(db, sessions, cfg),
		productService: product.NewService(db, cfg),
		pdfService:     pdf.NewService(cfg),
		config:         cfg,
	}
}

// GenerateInvoice handles GET /orders/:id/invoice - renders the order as a
// downloadable PDF
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	ord, ok := h.loadOrder(c)
	if !ok {
		return
	}

	lines, err := h.invoiceLines(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	pdfBuffer, err := h.pdfService.GenerateInvoice(ord, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	// Set headers for PDF download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", pdf.InvoiceNumber(ord.ID)))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// GetInvoiceData handles GET /orders/:id/invoice/data - the invoice as JSON
// for frontend preview
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	ord, ok := h.loadOrder(c)
	if !ok {
		return
	}

	lines, err := h.invoiceLines(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve invoice lines",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice data retrieved successfully",
		"data": gin.H{
			"invoice_number": pdf.InvoiceNumber(ord.ID),
			"invoice_date":   time.Now().Format("January 2, 2006"),
			"due_date":       time.Now().AddDate(0, 0, 30).Format("January 2, 2006"),
			"order":          ord,
			"lines":          lines,
			"company": gin.H{
				"name":    h.config.App.CompanyName,
				"address": h.config.App.CompanyAddress,
				"phone":   h.config.App.CompanyPhone,
				"email":   h.config.App.CompanyEmail,
				"website": h.config.App.CompanyWebsite,
			},
		},
	})
}

func (h *InvoiceHandler) loadOrder(c *gin.Context) (*order.Order, bool) {
	id, ok := parseOrderID(c)
	if !ok {
		return nil, false
	}

	ord, err := h.orderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return nil, false
	}

	return ord, true
}

// invoiceLines resolves product names for the order's items. Products
// referenced by order lines cannot be deleted, so every lookup resolves.
func (h *InvoiceHandler) invoiceLines(ord *order.Order) ([]pdf.InvoiceLine, error) {
	lines := make([]pdf.InvoiceLine, 0, len(ord.Items))
	for _, item := range ord.Items {
		prod, err := h.productService.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pdf.InvoiceLine{
			Name:      prod.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return lines, nil
}
