// catalog/service.go
package catalog

import (
	"context"

	"github.com/chenyinghua/firework-shop/models"
)

// Service is the hosted backend the shop reads its catalog from. Counter
// increments and order inserts are best-effort; the shop never retries them.
type Service interface {
	// FetchProducts returns the full product list with live counters.
	FetchProducts(ctx context.Context) ([]models.Product, error)
	// IncrementView bumps the backend view counter for a product.
	IncrementView(ctx context.Context, productID string) error
	// IncrementCartAdd bumps the backend cart-add counter for a product.
	IncrementCartAdd(ctx context.Context, productID string) error
	// InsertOrder appends an order sheet to the backend order log.
	InsertOrder(ctx context.Context, sheet models.OrderSheet) error
}
