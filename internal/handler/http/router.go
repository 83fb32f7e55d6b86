package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/checkout"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/identity"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/health"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Carts          *cart.Registry
	Catalog        *catalog.Service
	Checkout       *checkout.Service
	Verifier       identity.Verifier
	Health         *health.Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: deps.AllowedOrigins}))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(ResolveScope(deps.Verifier))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)
	cartHandler := NewCartHandler(deps.Carts, deps.Catalog, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Logger)
	adminHandler := NewAdminHandler(deps.Catalog, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public browsing
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/search", catalogHandler.SearchProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/sizes", catalogHandler.ListSizes)

		// Cart, scoped to the session or account
		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(RequireScope)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{lineID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{lineID}", cartHandler.RemoveItem)
			r.Post("/claim", cartHandler.ClaimCart)
		})

		// Checkout
		r.Route("/checkout", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(RequireScope)

			r.Post("/quote", checkoutHandler.Quote)
			r.Post("/", checkoutHandler.Submit)
		})

		// Catalog management
		r.Route("/admin/products", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(RequireAdmin)

			r.Post("/", adminHandler.CreateProduct)
			r.Patch("/{id}", adminHandler.UpdateProduct)
			r.Delete("/{id}", adminHandler.DeleteProduct)
		})
	})

	return r
}
