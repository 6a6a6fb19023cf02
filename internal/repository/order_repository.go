package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shopy/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items in one transaction; gorm cascades
// the Items association through the OrderID foreign key.
func (r *OrderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("create order failed: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByIDAndUserID(orderID, userID uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order failed: %w", err)
	}
	return &order, nil
}

func (r *OrderRepository) GetByID(orderID uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order failed: %w", err)
	}
	return &order, nil
}

func (r *OrderRepository) ListByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders failed: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) ListRecent(limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var orders []model.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list recent orders failed: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(orderID uint, status string) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
		return fmt.Errorf("update order status failed: %w", err)
	}
	return nil
}

func (r *OrderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count orders failed: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) SumTotals() (float64, error) {
	var revenue float64
	if err := r.db.Model(&model.Order{}).Select("COALESCE(SUM(total), 0)").Scan(&revenue).Error; err != nil {
		return 0, fmt.Errorf("sum order totals failed: %w", err)
	}
	return revenue, nil
}
