package repositories

import (
	"context"
	"errors"

	"estoquehub/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUConflict     = errors.New("product with this sku already exists for user")
)

// ProductRepository defines the interface for product data access.
// Every method is scoped to a single owner.
type ProductRepository interface {
	// ListByUser returns the owner's products, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Product, error)
	// SKUExists reports whether the owner has a product with sku whose id differs from excludeID.
	// An excludeID of 0 checks every product.
	SKUExists(ctx context.Context, userID, sku string, excludeID uint) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	// Update writes product over the row matching both product.ID and product.UserID
	// and reloads it. ErrProductNotFound is returned when no row matched.
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the row matching id and userID. Deleting nothing is not an error.
	Delete(ctx context.Context, userID string, id uint) error
}
