package gateway

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
)

// Item is one cart line as the gateways see it.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Customer is the payer identity forwarded to the provider.
type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document,omitempty"` // CPF/CNPJ where the provider requires it
}

// CreatePaymentRequest is the normalized "create payment" call. The order id
// doubles as the idempotency key on providers that support one.
type CreatePaymentRequest struct {
	OrderID  string
	Items    []Item
	Customer Customer
}

// PixPayload is a PIX charge: copy-paste code plus optional QR image.
type PixPayload struct {
	QRCode            string `json:"qrCode"`
	QRCodeImageBase64 string `json:"qrCodeImageBase64,omitempty"`
}

// CreatePaymentResponse carries either a hosted checkout URL or a PIX charge.
type CreatePaymentResponse struct {
	TransactionID string      `json:"transactionId"`
	CheckoutURL   string      `json:"checkoutUrl,omitempty"`
	Pix           *PixPayload `json:"pix,omitempty"`
}

// PaymentStatus is a payment resource fetched back from the provider. Status
// keeps the provider's own vocabulary; the reconciler maps it.
type PaymentStatus struct {
	TransactionID string
	OrderID       string
	Status        string
}

// Gateway is implemented once per payment provider.
type Gateway interface {
	// Name returns the provider key used in order records and webhooks.
	Name() string

	// CreatePayment translates the normalized request into a provider call.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)

	// CheckStatus fetches the payment resource by its provider id.
	CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error)
}

// UpstreamError is a non-2xx provider response; the body is kept for operator
// diagnostics and surfaced as a 502 at the handler boundary.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Amount computes the charge total server-side. Client-submitted totals are
// never trusted.
func Amount(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Cents converts a BRL amount to integer cents for providers that bill in
// minor units.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// newHTTPClient is shared by all adapters. No retries: the checkout UI lets
// the shopper retry manually.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// Registry holds the configured gateways keyed by provider name.
type Registry map[string]Gateway

// Get returns the gateway for a provider, or false when not configured.
func (r Registry) Get(name string) (Gateway, bool) {
	g, ok := r[name]
	return g, ok
}

// NewRegistryFromConfig registers every provider whose credentials are
// present, mirroring how strategies come and go per environment.
func NewRegistryFromConfig() Registry {
	registry := make(Registry)
	cfg := config.GlobalConfig

	if cfg.Stripe.SecretKey != "" {
		registry[ProviderStripe] = NewStripeGateway(cfg.Stripe, cfg.App)
	}
	if cfg.MercadoPago.AccessToken != "" {
		registry[ProviderMercadoPago] = NewMercadoPagoGateway(cfg.MercadoPago, cfg.App)
	}
	if cfg.Cora.ClientID != "" {
		registry[ProviderCora] = NewCoraGateway(cfg.Cora)
	}
	if cfg.Asaas.APIKey != "" {
		registry[ProviderAsaas] = NewAsaasGateway(cfg.Asaas)
	}
	if cfg.DigitalManager.APIToken != "" {
		registry[ProviderDigitalManager] = NewDigitalManagerGateway(cfg.DigitalManager)
	}

	for name := range registry {
		logger.Log.Sugar().Infow("payment gateway registered", "provider", name)
	}

	return registry
}

// Provider keys. Stored on orders and used in webhook routes.
const (
	ProviderStripe         = "stripe"
	ProviderMercadoPago    = "mercadopago"
	ProviderCora           = "cora"
	ProviderAsaas          = "asaas"
	ProviderDigitalManager = "digitalmanager"
)
