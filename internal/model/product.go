package model

import "time"

// Product stock is a display status, not a quantity; the storefront only
// distinguishes "In Stock" from "Out of Stock".
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Category    string    `gorm:"size:64;not null;index" json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       string    `gorm:"size:32;not null" json:"stock"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
