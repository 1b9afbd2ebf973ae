package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"estoquehub/internal/models"
	"estoquehub/internal/repositories"

	"github.com/gocarina/gocsv"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ProductInput is the request schema for POST and PUT /products.
// Quantities accept JSON numbers or numeric strings; absent means 0.
type ProductInput struct {
	Name        string      `json:"name" validate:"required"`
	SKU         string      `json:"sku" validate:"required"`
	Quantity    interface{} `json:"quantity"`
	MinQuantity interface{} `json:"minQuantity"`
	Category    string      `json:"category"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"minQuantity"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewProductResponse maps a stored product to its API shape.
func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.UpdatedAt,
	}
}

type productCSVRow struct {
	ID          uint   `csv:"id"`
	Name        string `csv:"name"`
	SKU         string `csv:"sku"`
	Quantity    int    `csv:"quantity"`
	MinQuantity int    `csv:"min_quantity"`
	Category    string `csv:"category"`
	LowStock    bool   `csv:"low_stock"`
	LastUpdated string `csv:"last_updated"`
}

// ProductEventPublisher sends inventory events to a broker.
type ProductEventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
// Every operation is scoped to the calling user.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher ProductEventPublisher
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher ProductEventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// ListProducts returns the caller's products, newest first.
func (s *ProductService) ListProducts(ctx context.Context, owner Identity) ([]ProductResponse, error) {
	products, err := s.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, NewDependencyError("failed to fetch products", err)
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, NewProductResponse(p))
	}
	return resp, nil
}

// CreateProduct stores a new product for the caller.
func (s *ProductService) CreateProduct(ctx context.Context, owner Identity, input ProductInput) (*ProductResponse, error) {
	product, err := s.buildProduct(owner, input)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.SKUExists(ctx, owner.ID, product.SKU, 0)
	if err != nil {
		return nil, NewDependencyError("failed to verify sku", err)
	}
	if exists {
		return nil, NewConflictError("a product with this sku already exists")
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrSKUConflict) {
			return nil, NewConflictError("a product with this sku already exists")
		}
		return nil, NewDependencyError("failed to create product", err)
	}

	s.publish(models.EventProductCreated, product)
	resp := NewProductResponse(*product)
	return &resp, nil
}

// UpdateProduct replaces the editable fields of one of the caller's products.
func (s *ProductService) UpdateProduct(ctx context.Context, owner Identity, id string, input ProductInput) (*ProductResponse, error) {
	productID, err := ParseProductID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.buildProduct(owner, input)
	if err != nil {
		return nil, err
	}
	product.ID = productID

	exists, err := s.repo.SKUExists(ctx, owner.ID, product.SKU, productID)
	if err != nil {
		return nil, NewDependencyError("failed to verify sku", err)
	}
	if exists {
		return nil, NewConflictError("another product with this sku already exists")
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrSKUConflict) {
			return nil, NewConflictError("another product with this sku already exists")
		}
		// A missing or foreign id is not distinguished from a store failure.
		return nil, NewDependencyError("failed to update product", err)
	}

	s.publish(models.EventProductUpdated, product)
	resp := NewProductResponse(*product)
	return &resp, nil
}

// DeleteProduct removes one of the caller's products. Deleting an id that
// matches nothing succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, owner Identity, id string) error {
	productID, err := ParseProductID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner.ID, productID); err != nil {
		return NewDependencyError("failed to delete product", err)
	}

	s.publish(models.EventProductDeleted, &models.Product{ID: productID, UserID: owner.ID})
	return nil
}

// ExportProductsCSV renders the caller's products as CSV with a low_stock column.
func (s *ProductService) ExportProductsCSV(ctx context.Context, owner Identity) ([]byte, error) {
	products, err := s.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, NewDependencyError("failed to fetch products", err)
	}

	rows := make([]*productCSVRow, 0, len(products))
	for _, p := range products {
		row := &productCSVRow{
			ID:          p.ID,
			Name:        p.Name,
			SKU:         p.SKU,
			Quantity:    p.Quantity,
			MinQuantity: p.MinQuantity,
			LowStock:    p.LowStock(),
			LastUpdated: p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if p.Category != nil {
			row.Category = *p.Category
		}
		rows = append(rows, row)
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode products csv: %w", err)
	}
	return out, nil
}

// ParseProductID accepts positive decimal integers only.
func ParseProductID(id string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil || n == 0 {
		return 0, NewValidationError("invalid id")
	}
	return uint(n), nil
}

func (s *ProductService) buildProduct(owner Identity, input ProductInput) (*models.Product, error) {
	if err := validateInput(s.validate, input, "name and sku are required", nil); err != nil {
		return nil, err
	}

	qty, err := resolveQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	minQty, err := resolveQuantity(input.MinQuantity)
	if err != nil {
		return nil, err
	}

	var category *string
	if input.Category != "" {
		c := input.Category
		category = &c
	}

	return &models.Product{
		UserID:      owner.ID,
		Name:        input.Name,
		SKU:         input.SKU,
		Quantity:    qty,
		MinQuantity: minQty,
		Category:    category,
	}, nil
}

// resolveQuantity converts a loosely typed JSON value to a non-negative int.
// Fractions are truncated after the sign check so -0.5 is still rejected.
func resolveQuantity(v interface{}) (int, error) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return 0, NewValidationError("quantity and minQuantity must be numbers")
	}
	if f < 0 {
		return 0, NewValidationError("quantity and minQuantity cannot be negative")
	}
	return int(f), nil
}

func (s *ProductService) publish(eventType string, p *models.Product) {
	if s.publisher == nil {
		return
	}

	event := models.ProductEvent{
		Type:        eventType,
		UserID:      p.UserID,
		ProductID:   p.ID,
		SKU:         p.SKU,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		zap.S().Warnw("failed to publish product event", "type", eventType, "product_id", p.ID, "error", err)
	}

	if eventType != models.EventProductDeleted && p.LowStock() {
		event.Type = models.EventProductLowStock
		if err := s.publisher.PublishProductEvent(event); err != nil {
			zap.S().Warnw("failed to publish product event", "type", event.Type, "product_id", p.ID, "error", err)
		}
	}
}
