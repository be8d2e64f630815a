package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/client"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/repository"
	orderRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotConnected means no token pair was ever stored for the account.
	ErrNotConnected  = errors.New("bling integration is not connected")
	ErrOrderNotFound = errors.New("order not found")
)

type SyncService interface {
	// Connect exchanges an authorization code and stores the first pair.
	Connect(ctx context.Context, code string) error

	// SyncOrder pushes one order to Bling as a sales order. Best effort:
	// the order itself is never touched on failure.
	SyncOrder(ctx context.Context, orderID string) error
}

type syncService struct {
	tokens repository.TokenRepository
	orders orderRepo.OrderRepository
	client *client.Client
}

func NewSyncService(tokens repository.TokenRepository, orders orderRepo.OrderRepository, c *client.Client) SyncService {
	return &syncService{tokens: tokens, orders: orders, client: c}
}

func (s *syncService) Connect(ctx context.Context, code string) error {
	pair, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return s.saveTokenPair(pair)
}

func (s *syncService) saveTokenPair(pair *client.TokenPair) error {
	return s.tokens.Save(&model.Token{
		Account:      model.DefaultAccount,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second),
	})
}

// accessToken returns a usable access token, refreshing lazily when the
// stored one is within the skew window of expiry. The new pair is persisted
// unconditionally because Bling rotates refresh tokens.
func (s *syncService) accessToken(ctx context.Context) (string, error) {
	token, err := s.tokens.Get(model.DefaultAccount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotConnected
		}
		return "", err
	}

	if !token.Expired(time.Now()) {
		return token.AccessToken, nil
	}

	pair, err := s.client.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if err := s.saveTokenPair(pair); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	return pair.AccessToken, nil
}

func (s *syncService) SyncOrder(ctx context.Context, orderID string) error {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	accessToken, err := s.accessToken(ctx)
	if err != nil {
		metrics.Default.ObserveBlingSync("error")
		return err
	}

	items, err := order.ParseItems()
	if err != nil {
		return fmt.Errorf("parse order items: %w", err)
	}

	salesOrder := &client.SalesOrder{
		NumeroLoja: order.ID,
		Data:       order.CreatedAt.Format("2006-01-02"),
	}
	salesOrder.Contato.Nome = order.CustomerName
	salesOrder.Contato.Email = order.CustomerEmail
	salesOrder.Contato.Telefone = order.CustomerPhone
	for _, item := range items {
		salesOrder.Itens = append(salesOrder.Itens, client.SalesOrderItem{
			Codigo:     item.ProductID,
			Descricao:  item.Name,
			Quantidade: item.Quantity,
			Valor:      item.UnitPrice,
		})
	}
	if order.CouponCode != "" {
		salesOrder.Observacoes = fmt.Sprintf("Cupom %s (desconto R$ %.2f)", order.CouponCode, order.Discount)
	}

	if err := s.client.CreateSalesOrder(ctx, accessToken, salesOrder); err != nil {
		metrics.Default.ObserveBlingSync("error")
		return fmt.Errorf("create sales order: %w", err)
	}

	metrics.Default.ObserveBlingSync("ok")
	logger.Log.Info("order synced to bling", zap.String("order_id", order.ID))
	return nil
}
