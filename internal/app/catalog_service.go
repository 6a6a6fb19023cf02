package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"shopy/internal/model"
	"shopy/internal/repository"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogEventPublisher hands product mutations to the async index sync.
type CatalogEventPublisher interface {
	Publish(ctx context.Context, event model.CatalogEvent) error
}

// CatalogCache caches the full product list between catalog mutations.
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]model.Product, bool, error)
	SetProducts(ctx context.Context, products []model.Product) error
	Invalidate(ctx context.Context) error
	MarkDirty(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

type CatalogService struct {
	productRepo *repository.ProductRepository
	publisher   CatalogEventPublisher
	cache       CatalogCache
}

type ProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       string
	Description string
	ImageURL    string
}

func NewCatalogService(
	productRepo *repository.ProductRepository,
	publisher CatalogEventPublisher,
	cache CatalogCache,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		publisher:   publisher,
		cache:       cache,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if category != "" {
		return s.productRepo.ListByCategory(category)
	}

	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetProducts(ctx); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx); dirtyErr == nil && !dirty {
			_ = s.cache.SetProducts(ctx, products)
		}
	}
	return products, nil
}

func (s *CatalogService) GetProduct(id uint) (*model.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, model.CatalogEvent{Type: model.CatalogEventUpserted, ProductID: product.ID})
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	updated, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	product.Name = updated.Name
	product.Category = updated.Category
	product.Price = updated.Price
	product.Stock = updated.Stock
	product.Description = updated.Description
	if updated.ImageURL != "" {
		product.ImageURL = updated.ImageURL
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, model.CatalogEvent{Type: model.CatalogEventUpserted, ProductID: product.ID})
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.DeleteByID(id); err != nil {
		return err
	}

	s.afterMutation(ctx, model.CatalogEvent{Type: model.CatalogEventDeleted, ProductID: id})
	return nil
}

// afterMutation invalidates the cache and notifies the index sync worker.
// Both are best effort: a down broker must not fail an admin save, it only
// delays index freshness until the next rebuild.
func (s *CatalogService) afterMutation(ctx context.Context, event model.CatalogEvent) {
	if s.cache != nil {
		_ = s.cache.MarkDirty(ctx)
		_ = s.cache.Invalidate(ctx)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("catalog: publish %s event for product %d failed: %v", event.Type, event.ProductID, err)
		}
	}
}

func productFromInput(input ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	stock := strings.TrimSpace(input.Stock)
	if name == "" || category == "" || input.Price <= 0 {
		return nil, ErrInvalidInput
	}
	if stock == "" {
		stock = "In Stock"
	}
	return &model.Product{
		Name:        name,
		Category:    category,
		Price:       input.Price,
		Stock:       stock,
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}, nil
}
