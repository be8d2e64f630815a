package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsaasCreatePayment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/customers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("access_token"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Maria", body["name"])
		assert.Equal(t, "order-1", body["externalReference"])

		json.NewEncoder(w).Encode(map[string]string{"id": "cus_1"})
	})
	mux.HandleFunc("/v3/payments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cus_1", body["customer"])
		assert.Equal(t, "PIX", body["billingType"])
		// Amount is computed from the items, not taken from the caller.
		assert.InDelta(t, 599.80, body["value"], 0.001)

		json.NewEncoder(w).Encode(map[string]string{"id": "pay_1"})
	})
	mux.HandleFunc("/v3/payments/pay_1/pixQrCode", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"payload":      "00020126pixcode",
			"encodedImage": "aW1hZ2U=",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewAsaasGateway(config.AsaasConfig{BaseURL: srv.URL, APIKey: "key-123"})

	resp, err := g.CreatePayment(context.Background(), CreatePaymentRequest{
		OrderID: "order-1",
		Items: []Item{
			{ProductID: "p1", Name: "Mouse", UnitPrice: 299.90, Quantity: 2},
		},
		Customer: Customer{Name: "Maria", Email: "maria@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pay_1", resp.TransactionID)
	require.NotNil(t, resp.Pix)
	assert.Equal(t, "00020126pixcode", resp.Pix.QRCode)
	assert.Equal(t, "aW1hZ2U=", resp.Pix.QRCodeImageBase64)
	assert.Empty(t, resp.CheckoutURL)
}

func TestAsaasCheckStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/payments/pay_1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":                "pay_1",
			"status":            "RECEIVED",
			"externalReference": "order-1",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewAsaasGateway(config.AsaasConfig{BaseURL: srv.URL, APIKey: "key-123"})

	status, err := g.CheckStatus(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", status.OrderID)
	assert.Equal(t, "RECEIVED", status.Status)
}

func TestAsaasUpstreamErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"code":"invalid_api_key"}]}`))
	}))
	defer srv.Close()

	g := NewAsaasGateway(config.AsaasConfig{BaseURL: srv.URL, APIKey: "bad"})

	_, err := g.CheckStatus(context.Background(), "pay_1")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "invalid_api_key")
}
