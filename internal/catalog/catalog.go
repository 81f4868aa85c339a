package catalog

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
)

// Fetcher is the remote side of the catalog.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
}

// Cache holds the last successfully loaded product list. A failed remote
// fetch degrades to the sample catalog; Load never returns an empty list.
type Cache struct {
	fetcher Fetcher
	bus     *events.Bus
	sfg     singleflight.Group // Coalesces concurrent loads

	mu       sync.RWMutex
	products []domain.Product
}

func NewCache(fetcher Fetcher, bus *events.Bus) *Cache {
	return &Cache{fetcher: fetcher, bus: bus}
}

// Load fetches the catalog once (no retry, no backoff) and falls back to the
// embedded sample products on any failure. The degradation is logged but not
// surfaced to the user.
func (c *Cache) Load(ctx context.Context) []domain.Product {
	v, _, _ := c.sfg.Do("catalog", func() (interface{}, error) {
		products, err := c.fetcher.FetchCatalog(ctx)
		if err != nil {
			log.Printf("catalog fetch failed, serving sample catalog: %v", err)
			products = SampleProducts()
		}

		c.mu.Lock()
		c.products = products
		c.mu.Unlock()

		c.bus.Publish(events.TopicProductsUpdated, products)
		return products, nil
	})

	return v.([]domain.Product)
}

// Products returns the current product list.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find resolves a product id against the cache.
func (c *Cache) Find(id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
