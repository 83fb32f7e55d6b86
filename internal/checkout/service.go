// Package checkout prices and submits orders for the lines a shopper selects
// from their cart.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/event"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/payment"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

// Events receives checkout notifications. Publishing is best effort.
type Events interface {
	CheckoutCompleted(ctx context.Context, data event.CheckoutCompletedData)
}

// SubmitInput holds the parameters for placing an order.
type SubmitInput struct {
	LineIDs       []string             `json:"line_ids" validate:"required,min=1"`
	Shipping      domain.ShippingInfo  `json:"shipping"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"required"`
}

// Receipt is returned after a successful checkout.
type Receipt struct {
	OrderID     string            `json:"order_id"`
	PaymentID   string            `json:"payment_id"`
	Items       []domain.LineItem `json:"items"`
	Subtotal    int64             `json:"subtotal"`
	ShippingFee int64             `json:"shipping_fee"`
	GrandTotal  int64             `json:"grand_total"`
}

// Service implements checkout pricing and submission.
type Service struct {
	carts       *cart.Registry
	provider    payment.Provider
	events      Events
	shippingFee int64
	logger      *slog.Logger
}

// NewService creates a checkout service. shippingFee is the flat fee in
// cents applied to any non-empty selection. events may be nil.
func NewService(carts *cart.Registry, provider payment.Provider, events Events, shippingFee int64, logger *slog.Logger) *Service {
	return &Service{
		carts:       carts,
		provider:    provider,
		events:      events,
		shippingFee: shippingFee,
		logger:      logger,
	}
}

// Quote prices the selected lines of the scope's cart without touching it.
// An empty selection prices the whole cart.
func (s *Service) Quote(ctx context.Context, scopeKey string, lineIDs []string) (domain.Quote, error) {
	m := s.carts.Scope(ctx, scopeKey)
	if err := m.WaitReady(ctx); err != nil {
		return domain.Quote{}, err
	}

	items := m.Items()
	if len(lineIDs) > 0 {
		selected, err := selectLines(items, lineIDs)
		if err != nil {
			return domain.Quote{}, err
		}
		items = selected
	}
	return domain.NewQuote(items, s.shippingFee), nil
}

// Submit charges the selected lines and, on success, removes exactly those
// lines from the cart. A declined or failed charge leaves the cart untouched.
func (s *Service) Submit(ctx context.Context, scopeKey string, input *SubmitInput) (*Receipt, error) {
	if len(input.LineIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one cart line must be selected")
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported payment method %q", input.PaymentMethod))
	}

	m := s.carts.Scope(ctx, scopeKey)
	if err := m.WaitReady(ctx); err != nil {
		return nil, err
	}

	selected, err := selectLines(m.Items(), input.LineIDs)
	if err != nil {
		return nil, err
	}
	quote := domain.NewQuote(selected, s.shippingFee)

	orderID := uuid.New().String()
	charge, err := s.provider.Charge(ctx, payment.ChargeInput{
		Reference: orderID,
		Method:    input.PaymentMethod,
		Amount:    quote.GrandTotal,
		Email:     input.Shipping.Email,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "checkout charge failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// The charge succeeded; only the purchased lines leave the cart.
	if err := m.RemoveLines(ctx, input.LineIDs); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear purchased lines",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
	m.Flush(ctx)

	receipt := &Receipt{
		OrderID:     orderID,
		PaymentID:   charge.PaymentID,
		Items:       selected,
		Subtotal:    quote.Subtotal,
		ShippingFee: quote.ShippingFee,
		GrandTotal:  quote.GrandTotal,
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("order_id", orderID),
		slog.String("payment_id", charge.PaymentID),
		slog.Int("lines", len(selected)),
		slog.Int64("grand_total", quote.GrandTotal),
	)
	if s.events != nil {
		s.events.CheckoutCompleted(ctx, event.CheckoutCompletedData{
			OrderID:     orderID,
			ScopeKey:    scopeKey,
			PaymentID:   charge.PaymentID,
			Method:      string(input.PaymentMethod),
			LineCount:   len(selected),
			Subtotal:    quote.Subtotal,
			ShippingFee: quote.ShippingFee,
			GrandTotal:  quote.GrandTotal,
		})
	}
	return receipt, nil
}

func selectLines(items []domain.LineItem, lineIDs []string) ([]domain.LineItem, error) {
	byID := make(map[string]domain.LineItem, len(items))
	for _, it := range items {
		byID[it.LineID] = it
	}

	selected := make([]domain.LineItem, 0, len(lineIDs))
	seen := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		it, ok := byID[id]
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cart line %q does not exist", id))
		}
		selected = append(selected, it)
	}
	return selected, nil
}
