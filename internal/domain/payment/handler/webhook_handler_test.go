package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubReconciler struct {
	err      error
	calls    int
	provider string
	txID     string
	eventID  string
}

func (s *stubReconciler) HandleNotification(ctx context.Context, provider, transactionID, eventID string) error {
	s.calls++
	s.provider = provider
	s.txID = transactionID
	s.eventID = eventID
	return s.err
}

func postWebhook(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestMercadoPagoWebhook(t *testing.T) {
	t.Run("payment notification is reconciled", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.MercadoPago, `{"id":987,"type":"payment","data":{"id":123456}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, stub.calls)
		assert.Equal(t, gateway.ProviderMercadoPago, stub.provider)
		assert.Equal(t, "123456", stub.txID)
		assert.Equal(t, "mp-987", stub.eventID)
	})

	t.Run("non-payment events are acknowledged and dropped", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.MercadoPago, `{"type":"plan","data":{"id":1}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, stub.calls)
	})

	t.Run("order not found answers 404 so the provider retries", func(t *testing.T) {
		stub := &stubReconciler{err: service.ErrOrderNotFound}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.MercadoPago, `{"id":1,"type":"payment","data":{"id":123}}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStripeWebhook(t *testing.T) {
	t.Run("completed session is reconciled", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Stripe, `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_123"}}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, gateway.ProviderStripe, stub.provider)
		assert.Equal(t, "cs_123", stub.txID)
		assert.Equal(t, "evt_1", stub.eventID)
	})

	t.Run("unrelated events are acknowledged and dropped", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Stripe, `{"id":"evt_2","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, stub.calls)
	})
}

func TestCoraWebhook(t *testing.T) {
	t.Run("invoice event is reconciled", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Cora, `{"id":"evt_1","event":"invoice.paid","data":{"id":"inv_1"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, gateway.ProviderCora, stub.provider)
		assert.Equal(t, "inv_1", stub.txID)
		assert.Equal(t, "evt_1", stub.eventID)
	})

	t.Run("non-invoice events are dropped", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Cora, `{"event":"transfer.completed","data":{"id":"tr_1"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, stub.calls)
	})
}

func TestDigitalManagerWebhook(t *testing.T) {
	t.Run("checkout event is reconciled with a synthesized event id", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.DigitalManager, `{"event":"approved","checkout":{"id":"chk_1"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, gateway.ProviderDigitalManager, stub.provider)
		assert.Equal(t, "chk_1", stub.txID)
		assert.Equal(t, "dmg-chk_1-approved", stub.eventID)
	})

	t.Run("missing checkout id is dropped", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.DigitalManager, `{"event":"approved","checkout":{}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, stub.calls)
	})
}

func TestAsaasWebhook(t *testing.T) {
	t.Run("payment event is reconciled with the event id", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Asaas, `{"id":"evt_1","event":"PAYMENT_RECEIVED","payment":{"id":"pay_1"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, gateway.ProviderAsaas, stub.provider)
		assert.Equal(t, "pay_1", stub.txID)
		assert.Equal(t, "evt_1", stub.eventID)
	})

	t.Run("non-payment events are dropped", func(t *testing.T) {
		stub := &stubReconciler{}
		h := NewWebhookHandler(stub)

		w := postWebhook(h.Asaas, `{"id":"evt_2","event":"TRANSFER_DONE","payment":{}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, stub.calls)
	})
}
