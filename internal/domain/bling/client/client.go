package client

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
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
)

// TokenPair is the OAuth response from Bling.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SalesOrder is the Bling v3 sales-order payload.
type SalesOrder struct {
	NumeroLoja string `json:"numeroLoja"` // our order id
	Data       string `json:"data"`
	Contato    struct {
		Nome     string `json:"nome"`
		Email    string `json:"email,omitempty"`
		Telefone string `json:"telefone,omitempty"`
	} `json:"contato"`
	Itens       []SalesOrderItem `json:"itens"`
	Observacoes string           `json:"observacoes,omitempty"`
}

// SalesOrderItem is one line of the sales order.
type SalesOrderItem struct {
	Codigo     string  `json:"codigo,omitempty"`
	Descricao  string  `json:"descricao"`
	Quantidade int     `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

// UpstreamError is a non-2xx Bling response with the body preserved.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("bling returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Bling v3 REST API.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	httpClient   *http.Client
}

func NewClient(cfg config.BlingConfig) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		tokenURL:     cfg.TokenURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) oauth(ctx context.Context, form url.Values) (*TokenPair, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("bling token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	httpReq.Header.Set("Authorization", "Basic "+basic)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bling token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("bling token response: %w", err)
	}
	return &pair, nil
}

// ExchangeCode trades the authorization code from the admin connect flow for
// the first token pair.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	return c.oauth(ctx, form)
}

// Refresh exchanges the refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.oauth(ctx, form)
}

// CreateSalesOrder pushes one sales order.
func (c *Client) CreateSalesOrder(ctx context.Context, accessToken string, order *SalesOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("bling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/pedidos/vendas", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("bling request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("bling request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
