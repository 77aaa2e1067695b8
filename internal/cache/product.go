package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ProductReviewGo/internal/domain"
)

const (
	idKeyPrefix   = "product:id:"
	slugKeyPrefix = "product:slug:"
)

// ErrCacheMiss is returned when the requested product is not cached.
var ErrCacheMiss = redis.Nil

// ProductCache is a Redis-backed read cache for individual products.
// Slug keys store an alias to the product ID so that invalidating the
// ID entry is enough to force a database read on either lookup path.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// GetByID retrieves a cached product by ID.
func (c *ProductCache) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	data, err := c.client.Get(ctx, idKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}

	return &product, nil
}

// GetBySlug resolves the slug alias and retrieves the cached product.
func (c *ProductCache) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	id, err := c.client.Get(ctx, slugKeyPrefix+slug).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get product slug: %w", err)
	}

	return c.GetByID(ctx, id)
}

// Set caches a product under its ID key and writes the slug alias.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, idKeyPrefix+product.ID, data, c.ttl)
	pipe.Set(ctx, slugKeyPrefix+product.Slug, product.ID, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}

	return nil
}

// Invalidate removes a product's cache entry by ID. Slug aliases are
// left to expire; a stale alias resolves to the deleted ID entry and
// reads as a miss.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, idKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del product: %w", err)
	}

	return nil
}
