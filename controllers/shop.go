// controllers/shop.go
package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/catalog"
	"github.com/chenyinghua/firework-shop/store"
	"github.com/chenyinghua/firework-shop/views"
)

// ShopController serves the storefront page
type ShopController struct {
	Cache  *catalog.Cache
	Cart   *store.CartStore
	Views  *views.Renderer
	Logger *zap.SugaredLogger

	// LoadError holds the catalog load failure from startup, shown inline
	// in place of the product grid. It is never retried automatically.
	LoadError string
}

// NewShopController creates a new ShopController
func NewShopController(cache *catalog.Cache, cart *store.CartStore, viewRenderer *views.Renderer, logger *zap.SugaredLogger) *ShopController {
	return &ShopController{
		Cache:  cache,
		Cart:   cart,
		Views:  viewRenderer,
		Logger: logger,
	}
}

// Storefront renders the shop page: the filtered and sorted product grid
// next to the cart panel, both projected from current state.
func (sc *ShopController) Storefront(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	mode := catalog.ParseSortMode(r.URL.Query().Get("sort"))

	count, price := sc.Cart.Totals()
	data := views.StorefrontData{
		Products:  catalog.Rank(sc.Cache.Snapshot(), term, mode),
		CartLines: views.SortedCartLines(sc.Cart.Lines()),
		CartCount: count,
		CartTotal: price,
		Query:     term,
		Sort:      string(mode),
		LoadError: sc.LoadError,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sc.Views.Storefront(w, data); err != nil {
		sc.Logger.Errorw("failed to render storefront", "error", err)
	}
}

// Healthz reports liveness
func (sc *ShopController) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
