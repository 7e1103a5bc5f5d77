// main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/catalog"
	"github.com/chenyinghua/firework-shop/controllers"
	"github.com/chenyinghua/firework-shop/middleware"
	"github.com/chenyinghua/firework-shop/orders"
	"github.com/chenyinghua/firework-shop/routes"
	"github.com/chenyinghua/firework-shop/snapshot"
	"github.com/chenyinghua/firework-shop/store"
	"github.com/chenyinghua/firework-shop/utils"
	"github.com/chenyinghua/firework-shop/views"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found. Proceeding with environment variables.")
	}

	logger, err := utils.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Pick the catalog backend
	service, cleanup, err := newCatalogService(logger)
	if err != nil {
		logger.Fatalw("failed to set up catalog backend", "error", err)
	}
	defer cleanup()

	// Initialize domain components
	cartFile := os.Getenv("CART_FILE")
	if cartFile == "" {
		cartFile = "fireworks_cart.json"
	}
	cart := store.NewCartStore(cartFile, logger)
	cache := catalog.NewCache(service, logger)
	viewRenderer, err := views.NewRenderer()
	if err != nil {
		logger.Fatalw("failed to load templates", "error", err)
	}
	mailer := utils.NewEmailService()
	builder := orders.NewBuilder(service, mailer, logger)

	var renderer snapshot.Renderer = snapshot.NewRodRenderer()

	// Initialize controllers
	shopController := controllers.NewShopController(cache, cart, viewRenderer, logger)
	productController := controllers.NewProductController(cache, logger)
	cartController := controllers.NewCartController(cart, cache, logger)
	orderController := controllers.NewOrderController(cart, builder, renderer, viewRenderer, logger)
	orderController.PersistOnPreview = os.Getenv("ORDER_PERSIST_ON_PREVIEW") == "true"

	// The one catalog load, at startup. A failure is shown inline on the
	// storefront and never retried automatically.
	if err := cache.Load(context.Background()); err != nil {
		logger.Errorw("failed to load catalog", "error", err)
		shopController.LoadError = err.Error()
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, shopController, productController, cartController, orderController)
	router.Use(middleware.RequestLogger(logger))

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logger.Infof("Server is running on port %s", port)
	logger.Fatal(http.ListenAndServe(":"+port, router))
}

// newCatalogService builds the backend selected by CATALOG_BACKEND:
// "supabase" (default) or "mongo".
func newCatalogService(logger *zap.SugaredLogger) (catalog.Service, func(), error) {
	switch os.Getenv("CATALOG_BACKEND") {
	case "", "supabase":
		baseURL := os.Getenv("SUPABASE_URL")
		apiKey := os.Getenv("SUPABASE_ANON_KEY")
		if baseURL == "" || apiKey == "" {
			return nil, nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
		}
		return catalog.NewSupabaseService(baseURL, apiKey), func() {}, nil
	case "mongo":
		client, err := utils.ConnectDB()
		if err != nil {
			return nil, nil, err
		}
		database := os.Getenv("MONGO_DATABASE")
		if database == "" {
			database = "fireworks"
		}
		cleanup := func() {
			if err := client.Disconnect(context.TODO()); err != nil {
				logger.Errorw("failed to disconnect from MongoDB", "error", err)
			}
		}
		return catalog.NewMongoService(client, database), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_BACKEND %q", os.Getenv("CATALOG_BACKEND"))
	}
}
