package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/ports"
)

// ProductCache is a read-through cache in front of the catalog repository.
// The catalog changes only at seed time, so cache errors degrade to a direct
// repository read rather than failing the request.
type ProductCache struct {
	inner  ports.ProductRepository
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(inner ports.ProductRepository, client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProductCache{inner: inner, client: client, ttl: ttl}
}

func (c *ProductCache) Seed(ctx context.Context, rows []domain.Product) error {
	if err := c.inner.Seed(ctx, rows); err != nil {
		return err
	}
	// Seeding invalidates everything cached from the previous catalog.
	iter := c.client.Scan(ctx, 0, "catalog:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
	return nil
}

func (c *ProductCache) List(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	if c.lookup(ctx, "catalog:products", &rows) {
		return rows, nil
	}
	rows, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, "catalog:products", rows)
	return rows, nil
}

func (c *ProductCache) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	key := "catalog:products:" + strings.ToLower(category)
	var rows []domain.Product
	if c.lookup(ctx, key, &rows) {
		return rows, nil
	}
	rows, err := c.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rows)
	return rows, nil
}

func (c *ProductCache) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	key := "catalog:product:" + productID
	var row domain.Product
	if c.lookup(ctx, key, &row) {
		return row, nil
	}
	row, err := c.inner.GetByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	c.store(ctx, key, row)
	return row, nil
}

func (c *ProductCache) Categories(ctx context.Context) ([]string, error) {
	var rows []string
	if c.lookup(ctx, "catalog:categories", &rows) {
		return rows, nil
	}
	rows, err := c.inner.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, "catalog:categories", rows)
	return rows, nil
}

func (c *ProductCache) lookup(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both degrade to a repository read
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *ProductCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}
