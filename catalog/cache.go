// catalog/cache.go
package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/models"
)

// incrementTimeout bounds the detached counter requests to the backend.
const incrementTimeout = 10 * time.Second

// Cache holds the in-memory product list with live counters. The cached
// counters are authoritative for the UI; the backend copies are updated by
// detached fire-and-forget requests and may drift.
type Cache struct {
	mu       sync.RWMutex
	products []models.Product
	index    map[string]int

	service Service
	logger  *zap.SugaredLogger
}

// NewCache creates an empty cache over the given backend service.
func NewCache(service Service, logger *zap.SugaredLogger) *Cache {
	return &Cache{
		index:   make(map[string]int),
		service: service,
		logger:  logger,
	}
}

// Load fetches the full product list and replaces the cache wholesale. On
// failure any previously loaded products are left untouched and the error is
// returned for the caller to surface; the cache never retries on its own.
func (c *Cache) Load(ctx context.Context) error {
	products, err := c.service.FetchProducts(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	c.mu.Lock()
	c.products = products
	c.index = index
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the product list for filtering and rendering.
func (c *Cache) Snapshot() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the cached product with the given id.
func (c *Cache) Get(productID string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[productID]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Len returns the number of cached products.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// RecordView optimistically increments the cached view counter and returns
// the new value. The matching backend increment runs detached; its failure
// is logged and otherwise ignored. Unknown ids return ok=false and fire no
// request.
func (c *Cache) RecordView(productID string) (viewCount int, ok bool) {
	c.mu.Lock()
	i, found := c.index[productID]
	if !found {
		c.mu.Unlock()
		return 0, false
	}
	c.products[i].ViewCount++
	viewCount = c.products[i].ViewCount
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), incrementTimeout)
		defer cancel()
		if err := c.service.IncrementView(ctx, productID); err != nil {
			c.logger.Errorw("failed to increment view count", "product_id", productID, "error", err)
		}
	}()
	return viewCount, true
}

// RecordCartAdd is the cart-add counterpart of RecordView. It is called once
// per add action, not once per unit in the cart.
func (c *Cache) RecordCartAdd(productID string) (cartAddCount int, ok bool) {
	c.mu.Lock()
	i, found := c.index[productID]
	if !found {
		c.mu.Unlock()
		return 0, false
	}
	c.products[i].CartAddCount++
	cartAddCount = c.products[i].CartAddCount
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), incrementTimeout)
		defer cancel()
		if err := c.service.IncrementCartAdd(ctx, productID); err != nil {
			c.logger.Errorw("failed to increment cart add count", "product_id", productID, "error", err)
		}
	}()
	return cartAddCount, true
}
