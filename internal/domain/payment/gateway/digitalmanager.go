package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

// DigitalManagerGateway creates hosted checkouts on Digital Manager Guru.
type DigitalManagerGateway struct {
	apiToken  string
	productID string
	baseURL   string
	client    *http.Client
}

func NewDigitalManagerGateway(cfg config.DigitalManagerConfig) *DigitalManagerGateway {
	return &DigitalManagerGateway{
		apiToken:  cfg.APIToken,
		productID: cfg.ProductID,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    newHTTPClient(),
	}
}

func (g *DigitalManagerGateway) Name() string {
	return ProviderDigitalManager
}

func (g *DigitalManagerGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	items := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, map[string]interface{}{
			"name":       item.Name,
			"unit_value": item.UnitPrice,
			"qty":        item.Quantity,
		})
	}

	payload, err := json.Marshal(map[string]interface{}{
		"product_id": g.productID,
		"reference":  req.OrderID,
		"contact": map[string]string{
			"name":  req.Customer.Name,
			"email": req.Customer.Email,
			"phone": req.Customer.Phone,
		},
		"items": items,
		"total": Amount(req.Items),
	})
	if err != nil {
		return nil, fmt.Errorf("digitalmanager request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/checkouts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("digitalmanager request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("digitalmanager request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderDigitalManager, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("digitalmanager response: %w", err)
	}

	return &CreatePaymentResponse{
		TransactionID: created.ID,
		CheckoutURL:   created.CheckoutURL,
	}, nil
}

func (g *DigitalManagerGateway) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/v2/checkouts/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("digitalmanager request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiToken)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("digitalmanager request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderDigitalManager, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var checkout struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"` // pending, approved, refunded, cancelled
	}
	if err := json.Unmarshal(body, &checkout); err != nil {
		return nil, fmt.Errorf("digitalmanager response: %w", err)
	}

	return &PaymentStatus{
		TransactionID: checkout.ID,
		OrderID:       checkout.Reference,
		Status:        checkout.Status,
	}, nil
}

var _ Gateway = (*DigitalManagerGateway)(nil)
