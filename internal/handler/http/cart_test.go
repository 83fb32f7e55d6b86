package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCart(t *testing.T, raw json.RawMessage) CartView {
	t.Helper()
	var view CartView
	require.NoError(t, json.Unmarshal(raw, &view))
	return view
}

func decodeAdd(t *testing.T, raw json.RawMessage) AddItemResponse {
	t.Helper()
	var out AddItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCartRequiresScope(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestCartRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodGet, "/api/v1/cart", nil, authHeaders("bogus"))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCartAddAndGet(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")

	status, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "M"}, headers)
	require.Equal(t, http.StatusCreated, status)

	added := decodeAdd(t, resp.Data)
	assert.NotEmpty(t, added.LineID)
	assert.False(t, added.Merged)
	assert.Equal(t, int64(1500), added.Cart.Total)

	// Same product and size merges into the existing line.
	status, resp = env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "M"}, headers)
	require.Equal(t, http.StatusCreated, status)
	merged := decodeAdd(t, resp.Data)
	assert.True(t, merged.Merged)
	assert.Equal(t, added.LineID, merged.LineID)

	// A different size appends a new line.
	status, resp = env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "L"}, headers)
	require.Equal(t, http.StatusCreated, status)
	assert.False(t, decodeAdd(t, resp.Data).Merged)

	status, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, status)
	view := decodeCart(t, resp.Data)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.TotalItemCount)
	assert.Equal(t, int64(4500), view.Total)
}

func TestCartAddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "ghost", Size: "M"}, anonHeaders("s1"))
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
}

func TestCartAddInvalidSize(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "XXL"}, anonHeaders("s1"))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCartUpdateQuantityAndFloor(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")

	_, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "M"}, headers)
	lineID := decodeAdd(t, resp.Data).LineID

	status, resp := env.do(t, http.MethodPatch, "/api/v1/cart/items/"+lineID,
		UpdateQuantityRequest{Change: 4}, headers)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, decodeCart(t, resp.Data).TotalItemCount)

	// A large decrement clamps at one rather than removing the line.
	status, resp = env.do(t, http.MethodPatch, "/api/v1/cart/items/"+lineID,
		UpdateQuantityRequest{Change: -99}, headers)
	require.Equal(t, http.StatusOK, status)
	view := decodeCart(t, resp.Data)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.TotalItemCount)
}

func TestCartRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")

	_, resp := env.do(t, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p1", Size: "M"}, headers)
	lineID := decodeAdd(t, resp.Data).LineID

	status, resp := env.do(t, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil, headers)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeCart(t, resp.Data).Items)

	// Removing again is a no-op.
	status, _ = env.do(t, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil, headers)
	assert.Equal(t, http.StatusOK, status)
}

func TestCartClear(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p1", Size: "M"}, headers)
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p2", Size: "L"}, headers)

	status, resp := env.do(t, http.MethodDelete, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeCart(t, resp.Data).Items)
}

func TestCartScopesAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p1", Size: "M"}, anonHeaders("s1"))

	_, resp := env.do(t, http.MethodGet, "/api/v1/cart", nil, anonHeaders("s2"))
	assert.Empty(t, decodeCart(t, resp.Data).Items)

	_, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, authHeaders("user-token"))
	assert.Empty(t, decodeCart(t, resp.Data).Items)
}

func TestCartClaimMergesAnonymousCart(t *testing.T) {
	env := newTestEnv(t)

	// Anonymous shopper fills a cart, then signs in.
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p1", Size: "M"}, anonHeaders("s1"))
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p2", Size: "L"}, anonHeaders("s1"))

	// The account already holds the same tee.
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "p1", Size: "M"}, authHeaders("user-token"))

	claim := map[string]string{"Authorization": "Bearer user-token", SessionHeader: "s1"}
	status, resp := env.do(t, http.MethodPost, "/api/v1/cart/claim", nil, claim)
	require.Equal(t, http.StatusOK, status)

	view := decodeCart(t, resp.Data)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.TotalItemCount)

	// The anonymous cart is gone.
	_, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, anonHeaders("s1"))
	assert.Empty(t, decodeCart(t, resp.Data).Items)
}

func TestCartClaimRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/api/v1/cart/claim", nil, anonHeaders("s1"))
	assert.Equal(t, http.StatusUnauthorized, status)
}
