package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/checkout"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	apperrors "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/errors"
)

func shippingBody() domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    "Ana Souza",
		Email:   "ana@example.com",
		Address: "Rua das Flores 100",
		City:    "Sao Paulo",
		State:   "SP",
		ZipCode: "01000-000",
	}
}

func seedCheckoutCart(t *testing.T, env *testEnv, headers map[string]string) []string {
	t.Helper()
	var ids []string
	for _, req := range []AddItemRequest{
		{ProductID: "p1", Size: "M"},
		{ProductID: "p2", Size: "L"},
	} {
		status, resp := env.do(t, http.MethodPost, "/api/v1/cart/items", req, headers)
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, decodeAdd(t, resp.Data).LineID)
	}
	return ids
}

func TestCheckoutQuote(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")
	ids := seedCheckoutCart(t, env, headers)

	status, resp := env.do(t, http.MethodPost, "/api/v1/checkout/quote",
		QuoteRequest{LineIDs: ids[:1]}, headers)
	require.Equal(t, http.StatusOK, status)

	var quote domain.Quote
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Equal(t, int64(1500), quote.Subtotal)
	assert.Equal(t, int64(1500), quote.ShippingFee)
	assert.Equal(t, int64(3000), quote.GrandTotal)
}

func TestCheckoutQuoteEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/checkout/quote",
		QuoteRequest{}, anonHeaders("empty"))
	require.Equal(t, http.StatusOK, status)

	var quote domain.Quote
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Zero(t, quote.GrandTotal)
	assert.Zero(t, quote.ShippingFee)
}

func TestCheckoutSubmit(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")
	ids := seedCheckoutCart(t, env, headers)

	status, resp := env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		LineIDs:       ids[:1],
		Shipping:      shippingBody(),
		PaymentMethod: "pix",
	}, headers)
	require.Equal(t, http.StatusCreated, status)

	var receipt checkout.Receipt
	require.NoError(t, json.Unmarshal(resp.Data, &receipt))
	assert.NotEmpty(t, receipt.OrderID)
	assert.Equal(t, "pay_ok", receipt.PaymentID)
	assert.Equal(t, int64(3000), receipt.GrandTotal)

	// Only the purchased line left the cart.
	_, cartResp := env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	view := decodeCart(t, cartResp.Data)
	require.Len(t, view.Items, 1)
	assert.Equal(t, ids[1], view.Items[0].LineID)
}

func TestCheckoutSubmitDeclined(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")
	ids := seedCheckoutCart(t, env, headers)

	env.charger.err = apperrors.PaymentFailed("charge declined")

	status, resp := env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		LineIDs:       ids,
		Shipping:      shippingBody(),
		PaymentMethod: "credit",
	}, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, resp.Error)

	// The cart is untouched after a failed charge.
	_, cartResp := env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	assert.Len(t, decodeCart(t, cartResp.Data).Items, 2)
}

func TestCheckoutSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	headers := anonHeaders("s1")
	ids := seedCheckoutCart(t, env, headers)

	// No lines selected.
	status, _ := env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		Shipping:      shippingBody(),
		PaymentMethod: "pix",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)

	// Unsupported payment method.
	status, _ = env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		LineIDs:       ids,
		Shipping:      shippingBody(),
		PaymentMethod: "boleto",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)

	// Missing shipping form.
	status, _ = env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		LineIDs:       ids,
		PaymentMethod: "pix",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown line id.
	status, _ = env.do(t, http.MethodPost, "/api/v1/checkout", SubmitRequest{
		LineIDs:       []string{"missing"},
		Shipping:      shippingBody(),
		PaymentMethod: "pix",
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)
}
