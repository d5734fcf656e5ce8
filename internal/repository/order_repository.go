// internal/repository/order_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrifresh/agrifresh-backend/internal/models"
)

type OrderRepository interface {
	Place(ctx context.Context, productName string, quantity decimal.Decimal, buyerID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Place decrements stock and inserts the order in one transaction. The
// decrement is conditional on quantity >= requested so concurrent orders
// cannot oversell; if the insert fails the decrement rolls back with it.
func (r *orderRepository) Place(ctx context.Context, productName string, quantity decimal.Decimal, buyerID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("name = ?", productName).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", product.ID, quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ? AND quantity <= 0", product.ID).
			UpdateColumn("availability", models.AvailabilityOutOfStock).Error; err != nil {
			return fmt.Errorf("failed to update availability: %w", err)
		}

		order = &models.Order{
			ProductName: productName,
			Quantity:    quantity,
			BuyerID:     buyerID,
			SellerID:    product.OwnerID,
			Status:      models.OrderStatusPlaced,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// Cancel flips a placed order to cancelled, but only for its seller and
// only from the placed state. The guard lives in the WHERE clause so two
// concurrent cancels cannot both succeed.
func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND seller_id = ? AND status = ?", id, sellerID, models.OrderStatusPlaced).
		UpdateColumn("status", models.OrderStatusCancelled)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel order: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing updated: work out which guard failed.
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if order.SellerID != sellerID {
		return ErrNotOrderSeller
	}
	return ErrOrderNotCancellable
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}
