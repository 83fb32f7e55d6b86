// Package payment defines the charge contract used at checkout.
package payment

import (
	"context"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
)

// ChargeInput describes a single checkout charge.
type ChargeInput struct {
	// Reference ties the charge back to the order being placed.
	Reference string
	Method    domain.PaymentMethod
	// Amount is the grand total in cents.
	Amount int64
	Email  string
}

// ChargeResult is returned by a successful charge.
type ChargeResult struct {
	PaymentID string
}

// Provider processes charges. A declined charge returns an error carrying
// payment failure semantics rather than a result.
type Provider interface {
	Charge(ctx context.Context, in ChargeInput) (ChargeResult, error)
}
