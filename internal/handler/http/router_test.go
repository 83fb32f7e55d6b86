package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/cart"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/catalog"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/checkout"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/identity"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/payment"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/health"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/logger"
)

// --- shared fakes ---

type memStore struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]domain.Cart)}
}

func (s *memStore) Load(ctx context.Context, scopeKey string) (domain.Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[scopeKey]
	return c.Clone(), ok, nil
}

func (s *memStore) Save(ctx context.Context, scopeKey string, c domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[scopeKey] = c.Clone()
	return nil
}

func (s *memStore) Delete(ctx context.Context, scopeKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, scopeKey)
	return nil
}

type memRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMemRepo(products ...domain.Product) *memRepo {
	r := &memRepo{products: make(map[string]domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memRepo) GetByID(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return p, nil
}

func (r *memRepo) List(ctx context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New().String()
	r.products[p.ID] = p
	return p, nil
}

func (r *memRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.Product{}, apperrors.NotFound("product", p.ID)
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

type fakeVerifier struct {
	tokens map[string]identity.Identity
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return identity.Identity{}, apperrors.Unauthorized("invalid or expired token")
	}
	return id, nil
}

type stubCharger struct {
	mu  sync.Mutex
	err error
}

func (p *stubCharger) Charge(ctx context.Context, in payment.ChargeInput) (payment.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return payment.ChargeResult{}, p.err
	}
	return payment.ChargeResult{PaymentID: "pay_ok"}, nil
}

// --- test server ---

type testEnv struct {
	server  *httptest.Server
	charger *stubCharger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewWithWriter("storefront-test", "error", io.Discard)
	store := newMemStore()
	registry := cart.NewRegistry(store, nil, log, 10*time.Millisecond)
	t.Cleanup(func() { registry.Close(context.Background()) })

	repo := newMemRepo(
		domain.Product{ID: "p1", Name: "Basic Tee", Price: 1500, Category: "t-shirts", ImageURL: "https://cdn.example/p1.jpg"},
		domain.Product{ID: "p2", Name: "Zip Hoodie", Price: 8000, Category: "hoodies", ImageURL: "https://cdn.example/p2.jpg"},
	)
	catalogSvc := catalog.NewService(repo, nil, log)

	charger := &stubCharger{}
	checkoutSvc := checkout.NewService(registry, charger, nil, 1500, log)

	verifier := &fakeVerifier{tokens: map[string]identity.Identity{
		"user-token":  {UID: "u1", Email: "ana@example.com"},
		"admin-token": {UID: "a1", Email: "root@example.com", Admin: true},
	}}

	router := NewRouter(RouterDeps{
		Carts:          registry,
		Catalog:        catalogSvc,
		Checkout:       checkoutSvc,
		Verifier:       verifier,
		Health:         health.NewHandler(),
		AllowedOrigins: []string{"*"},
		Logger:         log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, charger: charger}
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func anonHeaders(session string) map[string]string {
	return map[string]string{SessionHeader: session}
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
