package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"shopy/internal/model"
)

// CatalogCache keeps the full product list in redis between catalog edits.
// The dirty marker briefly suppresses repopulation right after a mutation so
// a racing reader cannot re-cache a stale list.
type CatalogCache struct {
	client         *redisv9.Client
	catalogTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewCatalogCache(client *redisv9.Client, catalogTTL, dirtyMarkerTTL time.Duration) *CatalogCache {
	if catalogTTL <= 0 {
		catalogTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &CatalogCache{
		client:         client,
		catalogTTL:     catalogTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *CatalogCache) GetProducts(ctx context.Context) ([]model.Product, bool, error) {
	raw, err := c.client.Get(ctx, c.productsKey()).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get catalog failed: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached catalog failed: %w", err)
	}
	return products, true, nil
}

func (c *CatalogCache) SetProducts(ctx context.Context, products []model.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.productsKey(), payload, c.catalogTTL).Err(); err != nil {
		return fmt.Errorf("redis set catalog failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.productsKey()).Err(); err != nil {
		return fmt.Errorf("redis delete catalog failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) MarkDirty(ctx context.Context) error {
	if err := c.client.Set(ctx, c.dirtyKey(), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) IsDirty(ctx context.Context) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey()).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *CatalogCache) productsKey() string {
	return "catalog:products"
}

func (c *CatalogCache) dirtyKey() string {
	return "catalog:products:dirty"
}
