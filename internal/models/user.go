package models

// User represents an account that owns products.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string `json:"name" gorm:"type:varchar(100);not null"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;type:varchar(255);not null"` // Never serialized
}
