package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives provider notifications. Events that do not concern
// payments are acknowledged and dropped; a non-2xx answer makes the provider
// redeliver, so it is returned only when a retry can actually help.
type WebhookHandler struct {
	reconciler service.Reconciler
}

func NewWebhookHandler(r service.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: r}
}

type mercadoPagoNotification struct {
	ID   json.Number `json:"id"`
	Type string      `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	var body mercadoPagoNotification
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	paymentID := body.Data.ID.String()
	if body.Type != "payment" || paymentID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	eventID := fmt.Sprintf("mp-%s", body.ID.String())
	if body.ID.String() == "" {
		eventID = fmt.Sprintf("mp-payment-%s", paymentID)
	}

	h.reconcile(c, gateway.ProviderMercadoPago, paymentID, eventID)
}

type asaasNotification struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payment struct {
		ID string `json:"id"`
	} `json:"payment"`
}

func (h *WebhookHandler) Asaas(c *gin.Context) {
	var body asaasNotification
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if !strings.HasPrefix(body.Event, "PAYMENT_") || body.Payment.ID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	eventID := body.ID
	if eventID == "" {
		eventID = fmt.Sprintf("asaas-%s-%s", body.Payment.ID, body.Event)
	}

	h.reconcile(c, gateway.ProviderAsaas, body.Payment.ID, eventID)
}

type stripeNotification struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

func (h *WebhookHandler) Stripe(c *gin.Context) {
	var body stripeNotification
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	sessionID := body.Data.Object.ID
	if !strings.HasPrefix(body.Type, "checkout.session.") || sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	eventID := body.ID
	if eventID == "" {
		eventID = fmt.Sprintf("stripe-%s-%s", sessionID, body.Type)
	}

	h.reconcile(c, gateway.ProviderStripe, sessionID, eventID)
}

type coraNotification struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Data  struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) Cora(c *gin.Context) {
	var body coraNotification
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if !strings.HasPrefix(body.Event, "invoice.") || body.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	eventID := body.ID
	if eventID == "" {
		eventID = fmt.Sprintf("cora-%s-%s", body.Data.ID, body.Event)
	}

	h.reconcile(c, gateway.ProviderCora, body.Data.ID, eventID)
}

type digitalManagerNotification struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Checkout struct {
		ID string `json:"id"`
	} `json:"checkout"`
}

func (h *WebhookHandler) DigitalManager(c *gin.Context) {
	var body digitalManagerNotification
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if body.Checkout.ID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	eventID := body.ID
	if eventID == "" {
		eventID = fmt.Sprintf("dmg-%s-%s", body.Checkout.ID, body.Event)
	}

	h.reconcile(c, gateway.ProviderDigitalManager, body.Checkout.ID, eventID)
}

func (h *WebhookHandler) reconcile(c *gin.Context, provider, transactionID, eventID string) {
	err := h.reconciler.HandleNotification(c.Request.Context(), provider, transactionID, eventID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	logger.Log.Warn("webhook processing failed",
		zap.String("provider", provider),
		zap.String("transaction_id", transactionID),
		zap.Error(err))

	var upstream *gateway.UpstreamError
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		// The checkout may still be writing the transaction id; let the
		// provider redeliver.
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case errors.Is(err, service.ErrUnknownProvider):
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayNotConfigured, err.Error())
	case errors.As(err, &upstream):
		response.Error(c, http.StatusBadGateway, response.ErrGatewayUpstream, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
