package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shopy/internal/model"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("create product failed: %w", err)
	}
	return nil
}

// ListAll returns the full catalog. The storefront is small enough that a
// full scan per request is acceptable; the redis cache absorbs the load.
func (r *ProductRepository) ListAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products failed: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) ListByCategory(category string) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("category = ?", category).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products by category failed: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query product by id failed: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("update product failed: %w", err)
	}
	return nil
}

func (r *ProductRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		return fmt.Errorf("delete product failed: %w", err)
	}
	return nil
}

func (r *ProductRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products failed: %w", err)
	}
	return count, nil
}
