// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the referenced product does not exist
var ErrNotFound = errors.New("product not found")

// ErrInUse is returned when deleting a product that order lines still reference
var ErrInUse = errors.New("product is referenced by existing orders")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url" binding:"max=255"`
	Status      string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateRequest represents product update data; nil fields are left unchanged
type UpdateRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url" binding:"omitempty,max=255"`
	Status      *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// ListResponse represents a paginated product listing
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListActive retrieves the storefront catalog: active products, newest first
func (s *Service) ListActive() ([]Product, error) {
	var products []Product
	if err := s.db.
		Where("status = ?", StatusActive).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ?", id).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &prod, nil
}

// List retrieves all products for the management console with pagination
func (s *Service) List(page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Create creates a new product
func (s *Service) Create(req *CreateRequest) (*Product, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	prod := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Status:      status,
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &prod, nil
}

// Update applies a partial update to an existing product
func (s *Service) Update(id uint, req *UpdateRequest) (*Product, error) {
	prod, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = req.Price.Round(2)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return prod, nil
	}

	if err := s.db.Model(prod).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetProduct(id)
}

// Delete removes a product. Products referenced by order lines are protected:
// the order history must keep resolving its product references.
func (s *Service) Delete(id uint) error {
	prod, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.Table("order_items").
		Where("product_id = ?", id).
		Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if refs > 0 {
		return ErrInUse
	}

	if err := s.db.Delete(prod).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
