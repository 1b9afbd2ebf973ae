package models

import "time"

// Inventory event types published after product mutations.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventProductLowStock = "product.low_stock"
)

// ProductEvent is the message body sent to the inventory events queue.
type ProductEvent struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	ProductID   uint      `json:"product_id"`
	SKU         string    `json:"sku,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	OccurredAt  time.Time `json:"occurred_at"`
}
