// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a farmer's produce listing. Name is stored lowercase and is
// unique per owner; add/update go through an atomic upsert on that key.
type Product struct {
	BaseModel
	Name         string          `json:"name" gorm:"size:255;not null;uniqueIndex:idx_products_owner_name"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(12,2);not null"`
	Unit         string          `json:"unit" gorm:"size:20;default:'kg'"`
	Category     string          `json:"category" gorm:"size:100;index;default:'General'"`
	Availability Availability    `json:"availability" gorm:"type:varchar(20);default:'in_stock'"`
	OwnerID      uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_products_owner_name"`
	HarvestDate  time.Time       `json:"harvest_date"`

	// Relationships
	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
