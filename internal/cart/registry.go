package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
)

// Registry hands out one Manager per scope key, creating and loading managers
// on first use. Managers that go untouched are evicted by the janitor so the
// map does not grow with every anonymous session ever seen.
type Registry struct {
	store    Store
	sink     EventSink
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	managers map[string]*scopeEntry
}

type scopeEntry struct {
	m        *Manager
	lastUsed time.Time
}

func NewRegistry(store Store, sink EventSink, logger *slog.Logger, debounce time.Duration) *Registry {
	return &Registry{
		store:    store,
		sink:     sink,
		logger:   logger,
		debounce: debounce,
		managers: make(map[string]*scopeEntry),
	}
}

// Scope returns the manager for the given scope key, creating it when first
// seen. The returned manager may still be loading its snapshot.
func (r *Registry) Scope(ctx context.Context, scopeKey string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.managers[scopeKey]; ok {
		e.lastUsed = time.Now()
		return e.m
	}
	m := NewManager(context.WithoutCancel(ctx), scopeKey, r.store, r.sink, r.logger, r.debounce)
	r.managers[scopeKey] = &scopeEntry{m: m, lastUsed: time.Now()}
	return m
}

// Transfer merges the cart at fromKey into the cart at toKey using the line
// identity rule: matching product, name and size lines have their quantities
// summed, anything else is appended. The source cart and its stored snapshot
// are removed, and the merged cart is persisted immediately.
func (r *Registry) Transfer(ctx context.Context, fromKey, toKey string) (domain.Cart, error) {
	from := r.Scope(ctx, fromKey)
	to := r.Scope(ctx, toKey)

	if err := from.WaitReady(ctx); err != nil {
		return domain.Cart{}, err
	}
	if err := to.WaitReady(ctx); err != nil {
		return domain.Cart{}, err
	}

	src := from.Snapshot()
	if len(src.Items) > 0 {
		merged := to.Snapshot()
		merged.Merge(src)
		if err := to.Replace(ctx, merged); err != nil {
			return domain.Cart{}, err
		}
		to.Flush(ctx)
	}

	r.Evict(ctx, fromKey)
	if err := r.store.Delete(ctx, fromKey); err != nil {
		r.logger.WarnContext(ctx, "failed to delete transferred cart", "scope", fromKey, "error", err)
	}

	return to.Snapshot(), nil
}

// Evict flushes and drops the manager for a scope, if present.
func (r *Registry) Evict(ctx context.Context, scopeKey string) {
	r.mu.Lock()
	e, ok := r.managers[scopeKey]
	delete(r.managers, scopeKey)
	r.mu.Unlock()
	if ok {
		e.m.Close(ctx)
	}
}

// EvictIdle closes and drops every manager whose scope has not been touched
// within idleFor, returning how many were evicted. Pending writes are flushed
// on close, so an evicted cart is reloaded intact on the scope's next visit.
func (r *Registry) EvictIdle(ctx context.Context, idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	r.mu.Lock()
	var idle []*Manager
	for key, e := range r.managers {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e.m)
			delete(r.managers, key)
		}
	}
	r.mu.Unlock()

	for _, m := range idle {
		m.Close(ctx)
	}
	return len(idle)
}

// Janitor evicts idle managers every interval until ctx is cancelled.
func (r *Registry) Janitor(ctx context.Context, interval, idleFor time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ctx, idleFor); n > 0 {
				r.logger.DebugContext(ctx, "evicted idle carts", "count", n)
			}
		}
	}
}

// Len reports how many managers are currently live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

// Close flushes every managed cart. Called on shutdown so debounced writes
// are not lost.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.managers))
	for _, e := range r.managers {
		managers = append(managers, e.m)
	}
	r.managers = make(map[string]*scopeEntry)
	r.mu.Unlock()

	for _, m := range managers {
		m.Close(ctx)
	}
}
