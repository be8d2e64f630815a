package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeGateway creates hosted Checkout Sessions. Stripe's API is
// form-encoded with bracketed array keys.
type StripeGateway struct {
	secretKey   string
	frontendURL string
	client      *http.Client
	baseURL     string
}

func NewStripeGateway(cfg config.StripeConfig, app config.AppConfig) *StripeGateway {
	return &StripeGateway{
		secretKey:   cfg.SecretKey,
		frontendURL: app.FrontendURL,
		client:      newHTTPClient(),
		baseURL:     stripeAPIBase,
	}
}

func (g *StripeGateway) Name() string {
	return ProviderStripe
}

func (g *StripeGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", req.OrderID)
	form.Set("customer_email", req.Customer.Email)
	form.Set("success_url", g.frontendURL+"/checkout/sucesso?order="+req.OrderID)
	form.Set("cancel_url", g.frontendURL+"/checkout/cancelado?order="+req.OrderID)

	for i, item := range req.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", "brl")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(Cents(item.UnitPrice), 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", req.OrderID)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderStripe, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("stripe response: %w", err)
	}

	return &CreatePaymentResponse{
		TransactionID: session.ID,
		CheckoutURL:   session.URL,
	}, nil
}

func (g *StripeGateway) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/checkout/sessions/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderStripe, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var session struct {
		ID                string `json:"id"`
		ClientReferenceID string `json:"client_reference_id"`
		PaymentStatus     string `json:"payment_status"` // paid, unpaid, no_payment_required
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("stripe response: %w", err)
	}

	return &PaymentStatus{
		TransactionID: session.ID,
		OrderID:       session.ClientReferenceID,
		Status:        session.PaymentStatus,
	}, nil
}

var _ Gateway = (*StripeGateway)(nil)
