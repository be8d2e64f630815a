package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

// CoraGateway issues PIX invoices. Cora uses client-credentials OAuth; the
// token is cached and refreshed inline when near expiry.
type CoraGateway struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewCoraGateway(cfg config.CoraConfig) *CoraGateway {
	return &CoraGateway{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       newHTTPClient(),
	}
}

func (g *CoraGateway) Name() string {
	return ProviderCora
}

// token returns a valid access token, fetching a new one when the cached
// token is within 60 seconds of expiry.
func (g *CoraGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry.Add(-60*time.Second)) {
		return g.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("cora token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(g.clientID + ":" + g.clientSecret))
	httpReq.Header.Set("Authorization", "Basic "+basic)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("cora token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Provider: ProviderCora, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("cora token response: %w", err)
	}

	g.accessToken = token.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return g.accessToken, nil
}

type coraInvoiceRequest struct {
	Code     string `json:"code"` // merchant reference, our order id
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
	Services []struct {
		Name   string `json:"name"`
		Amount int64  `json:"amount"`
	} `json:"services"`
	PaymentTerms struct {
		DueDate string `json:"due_date"`
	} `json:"payment_terms"`
	PaymentForms []string `json:"payment_forms"`
}

func (g *CoraGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	accessToken, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	var invoice coraInvoiceRequest
	invoice.Code = req.OrderID
	invoice.Customer.Name = req.Customer.Name
	invoice.Customer.Email = req.Customer.Email
	for _, item := range req.Items {
		invoice.Services = append(invoice.Services, struct {
			Name   string `json:"name"`
			Amount int64  `json:"amount"`
		}{
			Name:   item.Name,
			Amount: Cents(item.UnitPrice) * int64(item.Quantity),
		})
	}
	invoice.PaymentTerms.DueDate = time.Now().Add(24 * time.Hour).Format("2006-01-02")
	invoice.PaymentForms = []string{"PIX"}

	payload, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("cora request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v2/invoices", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("cora request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	// Retried checkout must not create a second invoice.
	httpReq.Header.Set("Idempotency-Key", req.OrderID)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cora request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderCora, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created struct {
		ID  string `json:"id"`
		PIX struct {
			EMV    string `json:"emv"`
			QRCode struct {
				Base64 string `json:"base64"`
			} `json:"qr_code"`
		} `json:"pix"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("cora response: %w", err)
	}

	return &CreatePaymentResponse{
		TransactionID: created.ID,
		Pix: &PixPayload{
			QRCode:            created.PIX.EMV,
			QRCodeImageBase64: created.PIX.QRCode.Base64,
		},
	}, nil
}

func (g *CoraGateway) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	accessToken, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/v2/invoices/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("cora request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cora request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Provider: ProviderCora, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var invoice struct {
		ID     string `json:"id"`
		Code   string `json:"code"`
		Status string `json:"status"` // OPEN, PAID, CANCELLED, LATE
	}
	if err := json.Unmarshal(body, &invoice); err != nil {
		return nil, fmt.Errorf("cora response: %w", err)
	}

	return &PaymentStatus{
		TransactionID: invoice.ID,
		OrderID:       invoice.Code,
		Status:        invoice.Status,
	}, nil
}

var _ Gateway = (*CoraGateway)(nil)
