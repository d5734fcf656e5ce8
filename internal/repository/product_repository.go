// internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrifresh/agrifresh-backend/internal/models"
)

// ProductRepository is the only surface the chat handlers see for produce
// listings. Writes that race (two updates to the same listing, concurrent
// orders against the same stock) are single atomic statements here, never
// read-then-write in the caller.
type ProductRepository interface {
	Upsert(ctx context.Context, product *models.Product) error
	FindByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	DeleteByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Upsert inserts the product or, when (owner_id, name) already exists,
// overwrites all mutable fields in one conditional write.
func (r *productRepository) Upsert(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "quantity", "unit", "category", "availability", "harvest_date", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND owner_id = ?", name, ownerID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// FindByName looks a product up across all owners. Used by order placement,
// where the buyer does not own the listing.
func (r *productRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (r *productRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// DeleteByNameAndOwner is a hard delete; the (owner_id, name) key must be
// free for a later re-add to upsert cleanly.
func (r *productRepository) DeleteByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("name = ? AND owner_id = ?", name, ownerID).
		Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
