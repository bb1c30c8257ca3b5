// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a committed purchase. Orders are immutable once created;
// the buyer details and total are written exactly once at commit time.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerName    string          `gorm:"size:100" json:"customer_name"`
	CustomerEmail   string          `gorm:"size:100" json:"customer_email"`
	CustomerPhone   string          `gorm:"size:20" json:"customer_phone"`
	ShippingAddress string          `gorm:"size:255" json:"shipping_address"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`

	// An order exclusively owns its lines; deleting the order deletes them.
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is one purchased line. UnitPrice and Subtotal are the cart's
// snapshots, stored independently of the product so later catalog edits do
// not rewrite order history. The product reference is protected: a product
// cannot be deleted while an order line points at it.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index;constraint:OnDelete:RESTRICT" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"subtotal"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
