package http

import (
	"log/slog"
	"net/http"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/checkout"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/httputil"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/validator"
)

// CheckoutHandler handles the checkout endpoints.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// QuoteRequest is the JSON request body for pricing a selection. An empty
// selection prices the whole cart.
type QuoteRequest struct {
	LineIDs []string `json:"line_ids"`
}

// SubmitRequest is the JSON request body for placing an order.
type SubmitRequest struct {
	LineIDs       []string            `json:"line_ids" validate:"required,min=1,dive,required"`
	Shipping      domain.ShippingInfo `json:"shipping"`
	PaymentMethod string              `json:"payment_method" validate:"required,oneof=credit debit pix"`
}

// Quote handles POST /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req QuoteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	quote, err := h.service.Quote(r.Context(), ScopeFromRequest(r), req.LineIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, quote)
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SubmitRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req.Shipping); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	receipt, err := h.service.Submit(r.Context(), ScopeFromRequest(r), &checkout.SubmitInput{
		LineIDs:       req.LineIDs,
		Shipping:      req.Shipping,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, receipt)
}
