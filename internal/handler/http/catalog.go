package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/httputil"
)

// CatalogHandler handles the public product browsing endpoints.
type CatalogHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products?category=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteData(w, http.StatusOK, products)
}

// SearchProducts handles GET /api/v1/products/search?q=
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteData(w, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, categories)
}

// ListSizes handles GET /api/v1/sizes
func (h *CatalogHandler) ListSizes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, domain.Sizes())
}
