package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/catalog"
	"github.com/chenyinghua/firework-shop/models"
	"github.com/chenyinghua/firework-shop/store"
	"github.com/chenyinghua/firework-shop/views"
)

// CartController handles cart-related requests
type CartController struct {
	Cart   *store.CartStore
	Cache  *catalog.Cache
	Logger *zap.SugaredLogger
}

// NewCartController creates a new CartController
func NewCartController(cart *store.CartStore, cache *catalog.Cache, logger *zap.SugaredLogger) *CartController {
	return &CartController{
		Cart:   cart,
		Cache:  cache,
		Logger: logger,
	}
}

// cartResponse is the JSON projection of the cart panel.
type cartResponse struct {
	Items        []models.CartLine `json:"items"`
	TotalCount   int               `json:"total_count"`
	TotalPrice   float64           `json:"total_price"`
	CartAddCount *int              `json:"cart_add_count,omitempty"`
}

// AddToCart adds one unit of a product to the cart. The product snapshot is
// taken from the cache at this instant; the cart-add counter is incremented
// exactly once per call, whether or not a line already exists.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	product, ok := cc.Cache.Get(id)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if err := cc.Cart.AddOne(id, product); err != nil {
		cc.Logger.Errorw("failed to persist cart", "product_id", id, "error", err)
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cartAddCount, _ := cc.Cache.RecordCartAdd(id)
	cc.writeCart(w, &cartAddCount)
}

// AdjustQuantity changes a line's quantity by the delta in the request body.
// A resulting quantity of zero or less removes the line.
func (cc *CartController) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var input struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if err := cc.Cart.AdjustQuantity(params["id"], input.Delta); err != nil {
		cc.Logger.Errorw("failed to persist cart", "product_id", params["id"], "error", err)
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cc.writeCart(w, nil)
}

// ClearCart empties the cart. The confirm query parameter stands in for the
// storefront's confirmation dialog and must be present.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "Confirmation required", http.StatusBadRequest)
		return
	}

	if err := cc.Cart.Clear(); err != nil {
		cc.Logger.Errorw("failed to persist cart", "error", err)
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cc.writeCart(w, nil)
}

// GetCart retrieves the cart with its folded totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	cc.writeCart(w, nil)
}

func (cc *CartController) writeCart(w http.ResponseWriter, cartAddCount *int) {
	lines := views.SortedCartLines(cc.Cart.Lines())
	count, price := cc.Cart.Totals()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cartResponse{
		Items:        lines,
		TotalCount:   count,
		TotalPrice:   price,
		CartAddCount: cartAddCount,
	})
}
