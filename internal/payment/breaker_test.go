package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/logger"
)

type scriptedProvider struct {
	err   error
	calls int
}

func (p *scriptedProvider) Charge(ctx context.Context, in ChargeInput) (ChargeResult, error) {
	p.calls++
	if p.err != nil {
		return ChargeResult{}, p.err
	}
	return ChargeResult{PaymentID: "pay_1"}, nil
}

func testInput() ChargeInput {
	return ChargeInput{Reference: "order-1", Method: domain.PaymentPix, Amount: 4500, Email: "shopper@example.com"}
}

func breakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &scriptedProvider{}
	p := NewBreakerProvider(inner, breakerConfig("test-ok"), logger.New("payment-test", "error"))

	res, err := p.Charge(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, "pay_1", res.PaymentID)
	assert.Equal(t, 1, inner.calls)
}

func TestBreakerOpensOnRepeatedOutage(t *testing.T) {
	inner := &scriptedProvider{err: errors.New("connection refused")}
	p := NewBreakerProvider(inner, breakerConfig("test-outage"), logger.New("payment-test", "error"))

	ctx := context.Background()
	for range 3 {
		_, err := p.Charge(ctx, testInput())
		require.Error(t, err)
	}

	// The breaker is now open: the provider is no longer reached and the
	// caller sees an unavailable error.
	_, err := p.Charge(ctx, testInput())
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerIgnoresDeclines(t *testing.T) {
	inner := &scriptedProvider{err: apperrors.PaymentFailed("charge declined")}
	p := NewBreakerProvider(inner, breakerConfig("test-decline"), logger.New("payment-test", "error"))

	ctx := context.Background()
	for range 10 {
		_, err := p.Charge(ctx, testInput())
		require.True(t, errors.Is(err, apperrors.ErrPaymentFailed))
	}

	// Declines are business outcomes; the provider keeps being reached.
	assert.Equal(t, 10, inner.calls)
}
