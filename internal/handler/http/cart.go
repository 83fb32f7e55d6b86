package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/identity"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/httputil"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts   *cart.Registry
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *cart.Registry, catalogSvc *catalog.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogSvc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
// The product snapshot is resolved server side so client supplied prices are
// never trusted.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required,oneof=XXS XS S M L XL"`
}

// UpdateQuantityRequest is the JSON request body for adjusting a line's
// quantity by a signed amount.
type UpdateQuantityRequest struct {
	Change int `json:"change" validate:"required"`
}

// --- Response DTOs ---

// CartView is the JSON representation of a cart.
type CartView struct {
	Items          []domain.LineItem `json:"items"`
	Total          int64             `json:"total"`
	TotalItemCount int               `json:"total_item_count"`
}

func cartView(items []domain.LineItem) CartView {
	var total int64
	count := 0
	for _, it := range items {
		total += it.Subtotal()
		count += it.Quantity
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartView{Items: items, Total: total, TotalItemCount: count}
}

// AddItemResponse extends the cart view with the affected line.
type AddItemResponse struct {
	LineID string   `json:"line_id"`
	Merged bool     `json:"merged"`
	Cart   CartView `json:"cart"`
}

// --- Handlers ---

func (h *CartHandler) manager(w http.ResponseWriter, r *http.Request) (*cart.Manager, bool) {
	m := h.carts.Scope(r.Context(), ScopeFromRequest(r))
	if err := m.WaitReady(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, false
	}
	return m, true
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, cartView(m.Items()))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	lineID, merged, err := m.AddItem(r.Context(), product.Snapshot(), domain.Size(req.Size))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, AddItemResponse{
		LineID: lineID,
		Merged: merged,
		Cart:   cartView(m.Items()),
	})
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{lineID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := m.UpdateQuantity(r.Context(), lineID, req.Change); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartView(m.Items()))
}

// RemoveItem handles DELETE /api/v1/cart/items/{lineID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := m.RemoveItem(r.Context(), lineID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartView(m.Items()))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := m.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartView(m.Items()))
}

// ClaimCart handles POST /api/v1/cart/claim. A freshly signed-in shopper
// calls it with both a bearer token and the session header; the anonymous
// cart is merged into the account cart.
func (h *CartHandler) ClaimCart(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromRequest(r)
	if !ok {
		err := apperrors.Unauthorized("claiming a cart requires authentication")
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	session := SessionFromRequest(r)
	if session == "" {
		err := apperrors.InvalidInput(SessionHeader + " header is required to claim a cart")
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	merged, err := h.carts.Transfer(r.Context(), identity.AnonScopeKey(session), id.ScopeKey())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartView(merged.Items))
}
