// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order records a purchase of produce. SellerID is fixed to the product's
// owner at placement time; status only moves forward (placed -> cancelled
// or placed -> delivered, never back).
type Order struct {
	BaseModel
	ProductName string          `json:"product_name" gorm:"size:255;not null;index"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(12,2);not null"`
	BuyerID     uuid.UUID       `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);default:'placed'"`

	// Relationships
	Buyer  User `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
