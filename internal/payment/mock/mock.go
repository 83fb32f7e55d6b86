// Package mock provides an in-process payment provider for development and
// tests. Charges always succeed unless the provider is configured to decline.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/payment"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

type Provider struct {
	logger  *slog.Logger
	decline atomic.Bool
}

func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{logger: logger}
}

// SetDecline makes subsequent charges fail with a payment error. Used to
// exercise decline paths in development.
func (p *Provider) SetDecline(decline bool) {
	p.decline.Store(decline)
}

func (p *Provider) Charge(ctx context.Context, in payment.ChargeInput) (payment.ChargeResult, error) {
	if in.Amount <= 0 {
		return payment.ChargeResult{}, apperrors.InvalidInput("charge amount must be positive")
	}
	if !in.Method.Valid() {
		return payment.ChargeResult{}, apperrors.InvalidInput(fmt.Sprintf("unsupported payment method %q", in.Method))
	}
	if p.decline.Load() {
		return payment.ChargeResult{}, apperrors.PaymentFailed("charge declined")
	}

	result := payment.ChargeResult{PaymentID: "pay_" + uuid.New().String()}
	p.logger.InfoContext(ctx, "mock charge approved",
		slog.String("payment_id", result.PaymentID),
		slog.String("reference", in.Reference),
		slog.String("method", string(in.Method)),
		slog.Int64("amount", in.Amount),
	)
	return result, nil
}
