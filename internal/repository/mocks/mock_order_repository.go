package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/agrifresh/agrifresh-backend/internal/models"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Place(ctx context.Context, productName string, quantity decimal.Decimal, buyerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, productName, quantity, buyerID)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Cancel(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error {
	args := m.Called(ctx, id, sellerID)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, buyerID)
	if o := args.Get(0); o != nil {
		return o.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}
