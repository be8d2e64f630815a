package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

// AsaasGateway creates PIX charges. Asaas authenticates with a plain
// access_token header and needs a second call to fetch the QR code.
type AsaasGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAsaasGateway(cfg config.AsaasConfig) *AsaasGateway {
	return &AsaasGateway{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (g *AsaasGateway) Name() string {
	return ProviderAsaas
}

func (g *AsaasGateway) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("asaas request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("asaas request: %w", err)
	}
	httpReq.Header.Set("access_token", g.apiKey)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("asaas request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Provider: ProviderAsaas, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("asaas response: %w", err)
		}
	}
	return nil
}

func (g *AsaasGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	// Asaas requires a customer record before the charge.
	var customer struct {
		ID string `json:"id"`
	}
	err := g.do(ctx, http.MethodPost, "/v3/customers", map[string]interface{}{
		"name":              req.Customer.Name,
		"email":             req.Customer.Email,
		"mobilePhone":       req.Customer.Phone,
		"cpfCnpj":           req.Customer.Document,
		"externalReference": req.OrderID,
	}, &customer)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, item := range req.Items {
		names = append(names, item.Name)
	}

	var charge struct {
		ID string `json:"id"`
	}
	err = g.do(ctx, http.MethodPost, "/v3/payments", map[string]interface{}{
		"customer":          customer.ID,
		"billingType":       "PIX",
		"value":             Amount(req.Items),
		"dueDate":           time.Now().Add(24 * time.Hour).Format("2006-01-02"),
		"description":       strings.Join(names, ", "),
		"externalReference": req.OrderID,
	}, &charge)
	if err != nil {
		return nil, err
	}

	var qr struct {
		EncodedImage string `json:"encodedImage"`
		Payload      string `json:"payload"`
	}
	if err := g.do(ctx, http.MethodGet, "/v3/payments/"+charge.ID+"/pixQrCode", nil, &qr); err != nil {
		return nil, err
	}

	return &CreatePaymentResponse{
		TransactionID: charge.ID,
		Pix: &PixPayload{
			QRCode:            qr.Payload,
			QRCodeImageBase64: qr.EncodedImage,
		},
	}, nil
}

func (g *AsaasGateway) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	var payment struct {
		ID                string `json:"id"`
		Status            string `json:"status"` // PENDING, RECEIVED, CONFIRMED, OVERDUE, REFUNDED
		ExternalReference string `json:"externalReference"`
	}
	if err := g.do(ctx, http.MethodGet, "/v3/payments/"+transactionID, nil, &payment); err != nil {
		return nil, err
	}

	return &PaymentStatus{
		TransactionID: payment.ID,
		OrderID:       payment.ExternalReference,
		Status:        payment.Status,
	}, nil
}

var _ Gateway = (*AsaasGateway)(nil)
