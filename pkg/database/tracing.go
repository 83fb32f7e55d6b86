package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/database"

// slowOpCfg holds the configurable slow operation logging settings.
var slowOpCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowOpLogging configures slow operation detection. Store calls exceeding
// the threshold are logged as warnings with the backend, operation name, and
// duration. A zero threshold disables it.
func SetSlowOpLogging(threshold time.Duration, logger *slog.Logger) {
	slowOpCfg.mu.Lock()
	defer slowOpCfg.mu.Unlock()
	slowOpCfg.threshold = threshold
	slowOpCfg.logger = logger
}

// getSlowOpConfig returns the current slow operation threshold and logger.
func getSlowOpConfig() (time.Duration, *slog.Logger) {
	slowOpCfg.mu.RLock()
	defer slowOpCfg.mu.RUnlock()
	return slowOpCfg.threshold, slowOpCfg.logger
}

// TraceOp starts a span for a storage backend call. system names the backend
// ("redis", "firestore"), target is the key or collection touched. The
// returned function must be called when the operation completes (typically
// via defer):
//
//	ctx, end := database.TraceOp(ctx, "redis", "LoadCart", key)
//	defer func() { end(err) }()
//
// If slow operation logging is enabled via SetSlowOpLogging, calls exceeding
// the configured threshold are logged as warnings.
func TraceOp(ctx context.Context, system, operation, target string) (context.Context, func(error)) {
	start := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
			attribute.String("db.target", target),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if threshold, logger := getSlowOpConfig(); threshold > 0 && logger != nil {
			if elapsed := time.Since(start); elapsed >= threshold {
				attrs := []any{
					slog.String("system", system),
					slog.String("operation", operation),
					slog.String("target", target),
					slog.Duration("duration", elapsed),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
				logger.WarnContext(ctx, "slow store operation detected", attrs...)
			}
		}
	}
}
