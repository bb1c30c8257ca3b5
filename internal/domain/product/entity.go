// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product status values
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Product represents a catalog product. The cart only ever reads products;
// all mutation goes through the staff management endpoints.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:100" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	Status      string          `gorm:"not null;size:10;default:'ACTIVE'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// IsActive reports whether the product is visible on the storefront
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}
