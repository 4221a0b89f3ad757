package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
)

const productKeyPrefix = "product:detail:"

// ProductCache stores catalog entries as JSON under product:detail:<id>.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProductCache{client: client, ttl: ttl}
}

var _ repository.ProductCache = (*ProductCache)(nil)

func productKey(id string) string { return productKeyPrefix + id }

// GetMany returns the cached products keyed by id and the ids that missed.
func (c *ProductCache) GetMany(ctx context.Context, ids []string) (map[string]entity.Product, []string, error) {
	found := make(map[string]entity.Product, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ids, fmt.Errorf("mget products from redis: %w", err)
	}

	var missing []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var p entity.Product
		if err := helpers.DecodeJSON([]byte(s), &p); err != nil {
			_ = c.Delete(ctx, ids[i])
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = p
	}
	return found, missing, nil
}

func (c *ProductCache) SetMany(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for i := range products {
		b, err := helpers.EncodeJSON(products[i])
		if err != nil {
			return fmt.Errorf("marshal product %s: %w", products[i].ID, err)
		}
		pipe.Set(ctx, productKey(products[i].ID), b, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set products to redis: %w", err)
	}
	return nil
}

func (c *ProductCache) Delete(ctx context.Context, id string) error {
	if err := helpers.RedisDel(ctx, c.client, productKey(id)); err != nil {
		return fmt.Errorf("delete product %s from redis: %w", id, err)
	}
	return nil
}
