package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

// BreakerConfig holds circuit breaker settings for the payment provider.
type BreakerConfig struct {
	// Name identifies this breaker in metrics and logs.
	Name string

	// MaxRequests is the maximum number of requests allowed in the half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing internal counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio is the ratio of failures to total requests that trips the breaker.
	FailureRatio float64

	// MinRequests is the minimum number of requests needed before the ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for the payment breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "payment-provider",
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var breakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "payment_circuit_breaker_state",
		Help: "Current state of the payment circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(breakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerProvider wraps a Provider with circuit breaker protection. Declined
// charges are business outcomes and do not count as breaker failures; only
// provider outages trip it. An open breaker surfaces as service unavailable.
type BreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker[ChargeResult]
	logger   *slog.Logger
}

// NewBreakerProvider wraps an existing payment provider with a circuit breaker.
func NewBreakerProvider(provider Provider, cfg BreakerConfig, logger *slog.Logger) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrPaymentFailed)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker[ChargeResult](settings),
		logger:   logger,
	}
}

// Charge executes the charge through the circuit breaker.
func (b *BreakerProvider) Charge(ctx context.Context, in ChargeInput) (ChargeResult, error) {
	res, err := b.breaker.Execute(func() (ChargeResult, error) {
		return b.provider.Charge(ctx, in)
	})
	if err != nil && errors.Is(err, gobreaker.ErrOpenState) {
		b.logger.WarnContext(ctx, "payment circuit breaker open, rejecting charge",
			slog.String("reference", in.Reference),
		)
		return ChargeResult{}, apperrors.ServiceUnavailable("payment provider is unavailable, try again later")
	}
	return res, err
}
