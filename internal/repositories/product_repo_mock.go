package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"estoquehub/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Uniqueness checks and writes happen under one lock.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// ListByUser returns the owner's products, newest first.
func (r *MockProductRepository) ListByUser(_ context.Context, userID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0)
	for _, p := range r.products {
		if p.UserID == userID {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		if productList[i].CreatedAt.Equal(productList[j].CreatedAt) {
			return productList[i].ID > productList[j].ID
		}
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	return productList, nil
}

// SKUExists reports whether the owner already uses sku on another product.
func (r *MockProductRepository) SKUExists(_ context.Context, userID, sku string, excludeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.skuTaken(userID, sku, excludeID), nil
}

func (r *MockProductRepository) skuTaken(userID, sku string, excludeID uint) bool {
	for id, p := range r.products {
		if id != excludeID && p.UserID == userID && p.SKU == sku {
			return true
		}
	}
	return false
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(product.UserID, product.SKU, 0) {
		return ErrSKUConflict
	}
	product.ID = r.nextID
	r.nextID++
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product owned by product.UserID.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok || existing.UserID != product.UserID {
		return ErrProductNotFound
	}
	if r.skuTaken(product.UserID, product.SKU, product.ID) {
		return ErrSKUConflict
	}
	existing.Name = product.Name
	existing.SKU = product.SKU
	existing.Quantity = product.Quantity
	existing.MinQuantity = product.MinQuantity
	existing.Category = product.Category
	existing.UpdatedAt = time.Now()
	r.products[product.ID] = existing
	*product = existing
	return nil
}

// Delete removes a product by its ID when owned by userID.
func (r *MockProductRepository) Delete(_ context.Context, userID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.products[id]; ok && p.UserID == userID {
		delete(r.products, id)
	}
	return nil
}
