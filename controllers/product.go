package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/catalog"
)

// ProductController handles product-related requests
type ProductController struct {
	Cache  *catalog.Cache
	Logger *zap.SugaredLogger
}

// NewProductController creates a new ProductController
func NewProductController(cache *catalog.Cache, logger *zap.SugaredLogger) *ProductController {
	return &ProductController{
		Cache:  cache,
		Logger: logger,
	}
}

// GetProducts retrieves the filtered and sorted product list. The q and sort
// query parameters mirror the storefront's search box and sort chips.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	mode := catalog.ParseSortMode(r.URL.Query().Get("sort"))

	products := catalog.Rank(pc.Cache.Snapshot(), term, mode)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// GetProductByID retrieves a single product from the cache
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	product, ok := pc.Cache.Get(params["id"])
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// RecordView applies an optimistic view-count increment and reports the new
// value. The matching backend increment runs detached and its outcome does
// not affect this response.
func (pc *ProductController) RecordView(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	viewCount, ok := pc.Cache.RecordView(params["id"])
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"view_count": viewCount})
}
