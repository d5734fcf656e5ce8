// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleFarmer   UserRole = "farmer"
)

type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// AvailabilityFor derives stock status from a quantity. Every write path
// recomputes availability through this so it can never go stale.
func AvailabilityFor(quantity decimal.Decimal) Availability {
	if quantity.IsPositive() {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDelivered OrderStatus = "delivered"
)
