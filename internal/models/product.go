package models

import "time"

// Product represents an inventory item owned by a single user.
// The (user_id, sku) pair is unique.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_products_user_sku"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	SKU         string    `json:"sku" gorm:"column:sku;type:varchar(100);not null;uniqueIndex:idx_products_user_sku"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0"`
	MinQuantity int       `json:"min_quantity" gorm:"column:min_quantity;not null;default:0;check:chk_products_min_quantity,min_quantity >= 0"`
	Category    *string   `json:"category" gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the product is at or below its alert threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}
