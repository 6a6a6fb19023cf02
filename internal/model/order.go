package model

import "time"

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      float64     `gorm:"not null" json:"subtotal"`
	Tax           float64     `gorm:"not null" json:"tax"`
	Total         float64     `gorm:"not null" json:"total"`
	Status        string      `gorm:"size:32;not null;index" json:"status"`
	PaymentMethod string      `gorm:"size:64;not null" json:"payment_method"`
	PaymentRef    string      `gorm:"size:128" json:"payment_ref"`
	ShippingName  string      `gorm:"size:128" json:"shipping_name"`
	ShippingAddr  string      `gorm:"size:512" json:"shipping_address"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem snapshots name and unit price at purchase time so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Name      string  `gorm:"size:256;not null" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}
