package repositories

import (
	"context"
	"errors"
	"fmt"

	"estoquehub/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListByUser retrieves the owner's products ordered by creation time, newest first.
func (r *GORMProductRepository) ListByUser(ctx context.Context, userID string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products for user %s: %w", userID, err)
	}
	return products, nil
}

// SKUExists checks the owner's products for sku, ignoring excludeID when set.
func (r *GORMProductRepository) SKUExists(ctx context.Context, userID, sku string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("user_id = ? AND sku = ?", userID, sku)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check sku %s: %w", sku, err)
	}
	return count > 0, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSKUConflict
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of the row owned by product.UserID.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", product.ID, product.UserID).
		Updates(map[string]interface{}{
			"name":         product.Name,
			"sku":          product.SKU,
			"quantity":     product.Quantity,
			"min_quantity": product.MinQuantity,
			"category":     product.Category,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrSKUConflict
		}
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}

	if err := db.First(product, "id = ? AND user_id = ?", product.ID, product.UserID).Error; err != nil {
		return fmt.Errorf("failed to reload product %d: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product by id within the owner's set.
func (r *GORMProductRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return nil
}
