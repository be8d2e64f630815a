package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

const mercadoPagoAPIBase = "https://api.mercadopago.com"

// MercadoPagoGateway creates Checkout Pro preferences and reads payment
// resources back during webhook reconciliation.
type MercadoPagoGateway struct {
	accessToken string
	frontendURL string
	publicURL   string
	client      *http.Client
	baseURL     string
}

func NewMercadoPagoGateway(cfg config.MercadoPagoConfig, app config.AppConfig) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		accessToken: cfg.AccessToken,
		frontendURL: app.FrontendURL,
		publicURL:   app.PublicURL,
		client:      newHTTPClient(),
		baseURL:     mercadoPagoAPIBase,
	}
}

func (g *MercadoPagoGateway) Name() string {
	return ProviderMercadoPago
}

type mpPreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

type mpPreferenceRequest struct {
	Items             []mpPreferenceItem `json:"items"`
	ExternalReference string             `json:"external_reference"`
	Payer             struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"payer"`
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
		Pending string `json:"pending"`
	} `json:"back_urls"`
	AutoReturn      string `json:"auto_return"`
	NotificationURL string `json:"notification_url,omitempty"`
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	var pref mpPreferenceRequest
	for _, item := range req.Items {
		pref.Items = append(pref.Items, mpPreferenceItem{
			ID:         item.ProductID,
			Title:      item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CurrencyID: "BRL",
			PictureURL: item.Image,
		})
	}
	pref.ExternalReference = req.OrderID
	pref.Payer.Name = req.Customer.Name
	pref.Payer.Email = req.Customer.Email
	pref.BackURLs.Success = g.frontendURL + "/checkout/sucesso?order=" + req.OrderID
	pref.BackURLs.Failure = g.frontendURL + "/checkout/erro?order=" + req.OrderID
	pref.BackURLs.Pending = g.frontendURL + "/checkout/pendente?order=" + req.OrderID
	pref.AutoReturn = "approved"
	if g.publicURL != "" {
		pref.NotificationURL = g.publicURL + "/payments/webhook/mercadopago"
	}

	payload, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("mercadopago request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mercadopago request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Idempotency-Key", req.OrderID)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderMercadoPago, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("mercadopago response: %w", err)
	}

	return &CreatePaymentResponse{
		TransactionID: created.ID,
		CheckoutURL:   created.InitPoint,
	}, nil
}

// CheckStatus fetches a payment (not a preference) by id. This is the call
// the webhook handler makes: the notification body is never trusted beyond
// the bare payment id.
func (g *MercadoPagoGateway) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/v1/payments/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("mercadopago request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderMercadoPago, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payment struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"` // approved, pending, rejected, refunded, cancelled, charged_back
		ExternalReference string      `json:"external_reference"`
	}
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("mercadopago response: %w", err)
	}

	return &PaymentStatus{
		TransactionID: payment.ID.String(),
		OrderID:       payment.ExternalReference,
		Status:        payment.Status,
	}, nil
}

var _ Gateway = (*MercadoPagoGateway)(nil)
