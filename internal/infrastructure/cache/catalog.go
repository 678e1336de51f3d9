package cache

import (
	"context"
	"slices"
	"time"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/cache"
	"wishlist-backend/pkg/metrics"
)

// CatalogCache wraps a CatalogRepository and memoizes product lookups.
// Stock status always goes to the underlying repository.
type CatalogCache struct {
	next  domain.CatalogRepository
	store cache.Store
	ttl   time.Duration
}

func NewCatalogCache(next domain.CatalogRepository, store cache.Store, ttl time.Duration) *CatalogCache {
	return &CatalogCache{next: next, store: store, ttl: ttl}
}

func (c *CatalogCache) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return c.lookup("product:sku:"+sku, func() (*domain.Product, error) {
		return c.next.GetProductBySKU(ctx, sku)
	})
}

func (c *CatalogCache) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return c.lookup("product:id:"+id, func() (*domain.Product, error) {
		return c.next.GetProductByID(ctx, id)
	})
}

func (c *CatalogCache) GetStockStatus(ctx context.Context, productID string) (domain.StockStatus, error) {
	return c.next.GetStockStatus(ctx, productID)
}

// lookup returns a copy of the cached product. Misses are not cached.
func (c *CatalogCache) lookup(key string, load func() (*domain.Product, error)) (*domain.Product, error) {
	if v, ok := c.store.Get(key); ok {
		if p, ok := v.(*domain.Product); ok {
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return copyProduct(p), nil
		}
	}
	metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()

	p, err := load()
	if err != nil || p == nil {
		return p, err
	}

	cp := copyProduct(p)
	c.store.Set("product:id:"+p.ID, cp, c.ttl)
	c.store.Set("product:sku:"+p.SKU, cp, c.ttl)
	return p, nil
}

// copyProduct copies the product and its top-level option slices. Nested
// values (variant attributes, bundle selections, option values, price
// pointers) stay shared with the cache entry and must be treated as
// read-only.
func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Variants = slices.Clone(p.Variants)
	cp.BundleOptions = slices.Clone(p.BundleOptions)
	cp.Links = slices.Clone(p.Links)
	cp.CustomOptions = slices.Clone(p.CustomOptions)
	return &cp
}
