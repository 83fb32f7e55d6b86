package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

type state int

const (
	stateLoading state = iota
	stateReady
)

const persistTimeout = 5 * time.Second

// Manager owns the authoritative in-memory cart for a single scope. Reads are
// served from memory; writes mutate memory immediately and schedule a
// debounced snapshot write, so a burst of mutations collapses into one store
// round trip. Persistence failures are logged and never surface to callers.
type Manager struct {
	scopeKey string
	store    Store
	sink     EventSink
	logger   *slog.Logger
	debounce time.Duration

	mu     sync.Mutex
	st     state
	cart   domain.Cart
	dirty  bool
	timer  *time.Timer
	closed bool

	ready chan struct{}
}

// NewManager creates a manager for scopeKey and starts loading its snapshot in
// the background. Until the load finishes, mutations fail with a retryable
// conflict; a load error falls back to an empty cart.
func NewManager(ctx context.Context, scopeKey string, store Store, sink EventSink, logger *slog.Logger, debounce time.Duration) *Manager {
	m := &Manager{
		scopeKey: scopeKey,
		store:    store,
		sink:     sink,
		logger:   logger.With("scope", scopeKey),
		debounce: debounce,
		ready:    make(chan struct{}),
	}
	go m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	c, ok, err := m.store.Load(loadCtx, m.scopeKey)
	if err != nil {
		m.logger.WarnContext(ctx, "cart load failed, starting empty", "error", err)
	}

	m.mu.Lock()
	if ok && err == nil {
		m.cart = c
	}
	m.st = stateReady
	m.mu.Unlock()
	close(m.ready)
}

// WaitReady blocks until the initial snapshot load has completed.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ScopeKey returns the scope this manager is bound to.
func (m *Manager) ScopeKey() string {
	return m.scopeKey
}

// AddItem adds one unit of the product in the given size. Lines are matched by
// product id, name and size; a match increments its quantity, otherwise a new
// line is appended.
func (m *Manager) AddItem(ctx context.Context, snap domain.ProductSnapshot, size domain.Size) (string, bool, error) {
	if err := snap.Validate(); err != nil {
		return "", false, apperrors.InvalidInput(err.Error())
	}
	if !size.Valid() {
		return "", false, apperrors.InvalidInput(domain.ErrInvalidSize.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return "", false, err
	}

	lineID, merged := m.cart.Add(snap, size)
	m.scheduleFlushLocked()
	return lineID, merged, nil
}

// RemoveItem deletes the line with the given id. Removing an absent line is a
// no-op.
func (m *Manager) RemoveItem(ctx context.Context, lineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return err
	}

	if m.cart.Remove(lineID) {
		m.scheduleFlushLocked()
	}
	return nil
}

// RemoveLines deletes every listed line in one pass, scheduling a single
// snapshot write.
func (m *Manager) RemoveLines(ctx context.Context, lineIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return err
	}

	changed := false
	for _, id := range lineIDs {
		if m.cart.Remove(id) {
			changed = true
		}
	}
	if changed {
		m.scheduleFlushLocked()
	}
	return nil
}

// UpdateQuantity applies a signed delta to a line's quantity, clamped at a
// minimum of one. Unknown lines are ignored.
func (m *Manager) UpdateQuantity(ctx context.Context, lineID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return err
	}

	if m.cart.AdjustQuantity(lineID, delta) {
		m.scheduleFlushLocked()
	}
	return nil
}

// Clear empties the cart, cancels any pending write and deletes the stored
// snapshot on the spot instead of waiting out the debounce.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if err := m.mutableLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	if len(m.cart.Items) == 0 {
		m.mu.Unlock()
		return nil
	}
	m.cart = domain.Cart{}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.dirty = false
	m.mu.Unlock()

	m.persist(ctx, domain.Cart{})
	return nil
}

// Replace swaps the full cart contents, used when merging carts across
// scopes. The write is persisted on the usual debounce.
func (m *Manager) Replace(ctx context.Context, c domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return err
	}

	m.cart = c.Clone()
	m.scheduleFlushLocked()
	return nil
}

// Items returns a copy of the current lines.
func (m *Manager) Items() []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone().Items
}

// Snapshot returns a copy of the whole cart.
func (m *Manager) Snapshot() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

// Total returns the cart subtotal in cents.
func (m *Manager) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Total()
}

// TotalItemCount returns the summed quantity across all lines.
func (m *Manager) TotalItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.TotalItemCount()
}

// Flush persists any pending snapshot immediately, bypassing the debounce.
func (m *Manager) Flush(ctx context.Context) {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if !m.dirty {
		m.mu.Unlock()
		return
	}
	m.dirty = false
	snap := m.cart.Clone()
	m.mu.Unlock()

	m.persist(ctx, snap)
}

// Close stops the debounce timer and flushes any pending snapshot.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	pending := m.dirty
	m.dirty = false
	snap := m.cart.Clone()
	m.mu.Unlock()

	if pending {
		m.persist(ctx, snap)
	}
}

func (m *Manager) mutableLocked() error {
	if m.closed {
		return apperrors.Conflict("cart is closed")
	}
	if m.st != stateReady {
		return apperrors.Conflict("cart is still loading, retry shortly")
	}
	return nil
}

func (m *Manager) scheduleFlushLocked() {
	m.dirty = true
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.flushDebounced)
}

func (m *Manager) flushDebounced() {
	m.mu.Lock()
	if !m.dirty || m.closed {
		m.mu.Unlock()
		return
	}
	m.dirty = false
	m.timer = nil
	snap := m.cart.Clone()
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	m.persist(ctx, snap)
}

func (m *Manager) persist(ctx context.Context, snap domain.Cart) {
	var err error
	if len(snap.Items) == 0 {
		err = m.store.Delete(ctx, m.scopeKey)
	} else {
		err = m.store.Save(ctx, m.scopeKey, snap)
	}
	if err != nil {
		m.logger.ErrorContext(ctx, "cart persist failed", "error", err, "items", len(snap.Items))
		return
	}

	if m.sink != nil {
		m.sink.CartUpdated(ctx, m.scopeKey, snap)
	}
}
