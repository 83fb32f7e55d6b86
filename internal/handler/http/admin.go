package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/httputil"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/validator"
)

// AdminHandler handles the catalog management endpoints.
type AdminHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *catalog.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateProduct handles POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req catalog.CreateProductInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, product)
}

// UpdateProduct handles PATCH /api/v1/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req catalog.UpdateProductInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
