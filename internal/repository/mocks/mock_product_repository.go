package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/agrifresh/agrifresh-backend/internal/models"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Upsert(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, name, ownerID)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ownerID)
	if p := args.Get(0); p != nil {
		return p.([]models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	if p := args.Get(0); p != nil {
		return p.([]models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) DeleteByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) error {
	args := m.Called(ctx, name, ownerID)
	return args.Error(0)
}
