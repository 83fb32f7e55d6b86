package cart

import (
	"context"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
)

// Store persists cart snapshots keyed by scope. Load reports ok=false when no
// snapshot exists for the scope, which callers treat as an empty cart.
type Store interface {
	Load(ctx context.Context, scopeKey string) (domain.Cart, bool, error)
	Save(ctx context.Context, scopeKey string, c domain.Cart) error
	Delete(ctx context.Context, scopeKey string) error
}

// EventSink receives cart change notifications. Publishing is best effort and
// must never block a mutation.
type EventSink interface {
	CartUpdated(ctx context.Context, scopeKey string, c domain.Cart)
}
