// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chenyinghua/firework-shop/controllers"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, shopController *controllers.ShopController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	// Storefront
	router.HandleFunc("/", shopController.Storefront).Methods("GET")
	router.HandleFunc("/healthz", shopController.Healthz).Methods("GET")

	// Product routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")
	router.HandleFunc("/products/{id}/view", productController.RecordView).Methods("POST")

	// Cart routes
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/{id}", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/cart/{id}/quantity", cartController.AdjustQuantity).Methods("POST")

	// Order routes
	router.HandleFunc("/orders/preview", orderController.PreviewOrder).Methods("POST")
	router.HandleFunc("/orders/image", orderController.SaveOrderImage).Methods("POST")

	// Product photos and QR codes served from local disk, as the original
	// site laid them out.
	router.PathPrefix("/image/").Handler(http.StripPrefix("/image/", http.FileServer(http.Dir("image"))))
}
