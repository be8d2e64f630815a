package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/client"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/model"
	orderModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Get(account string) (*model.Token, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Token), args.Error(1)
}

func (m *mockTokenRepo) Save(token *model.Token) error {
	return m.Called(token).Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(order *orderModel.Order) error {
	return m.Called(order).Error(0)
}

func (m *mockOrderRepo) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByTransactionID(transactionID string) (*orderModel.Order, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByCustomer(customerID string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(customerID, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) GetList(status string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) SetTransaction(orderID, transactionID, provider string) error {
	return m.Called(orderID, transactionID, provider).Error(0)
}

func (m *mockOrderRepo) SetPaymentStatus(orderID, paymentStatus string) error {
	return m.Called(orderID, paymentStatus).Error(0)
}

func (m *mockOrderRepo) SetStatus(orderID, status string) error {
	return m.Called(orderID, status).Error(0)
}

func paidOrder() *orderModel.Order {
	items, _ := json.Marshal([]orderModel.OrderItem{
		{ProductID: "p1", Name: "SSD NVMe 1TB", UnitPrice: 499.90, Quantity: 1},
	})
	order := &orderModel.Order{
		Status:        orderModel.StatusConfirmed,
		PaymentStatus: orderModel.PaymentPaid,
		Items:         items,
		Subtotal:      499.90,
		Total:         499.90,
		CustomerName:  "Maria",
		CustomerEmail: "maria@example.com",
	}
	order.ID = "order-1"
	order.CreatedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return order
}

func TestSyncOrderRefreshesExpiredToken(t *testing.T) {
	var refreshCalls, orderCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		json.NewEncoder(w).Encode(client.TokenPair{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    21600,
		})
	})
	mux.HandleFunc("/pedidos/vendas", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&orderCalls, 1)
		assert.Equal(t, "Bearer new-access", r.Header.Get("Authorization"))

		var order client.SalesOrder
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "order-1", order.NumeroLoja)
		assert.Equal(t, "2025-06-01", order.Data)
		require.Len(t, order.Itens, 1)
		assert.Equal(t, 499.90, order.Itens[0].Valor)

		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	expired := &model.Token{
		Account:      model.DefaultAccount,
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(30 * time.Second), // inside the skew window
	}

	tokens := new(mockTokenRepo)
	tokens.On("Get", model.DefaultAccount).Return(expired, nil)
	tokens.On("Save", mock.MatchedBy(func(tok *model.Token) bool {
		return tok.AccessToken == "new-access" && tok.RefreshToken == "new-refresh"
	})).Return(nil).Once()

	orders := new(mockOrderRepo)
	orders.On("GetByID", "order-1").Return(paidOrder(), nil)

	c := client.NewClient(config.BlingConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
	})

	svc := NewSyncService(tokens, orders, c)
	require.NoError(t, svc.SyncOrder(context.Background(), "order-1"))

	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&orderCalls))
	tokens.AssertExpectations(t)
}

func TestSyncOrderSkipsRefreshWhenTokenIsFresh(t *testing.T) {
	var orderCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("token endpoint must not be called")
	})
	mux.HandleFunc("/pedidos/vendas", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&orderCalls, 1)
		assert.Equal(t, "Bearer fresh-access", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fresh := &model.Token{
		Account:      model.DefaultAccount,
		AccessToken:  "fresh-access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(1 * time.Hour),
	}

	tokens := new(mockTokenRepo)
	tokens.On("Get", model.DefaultAccount).Return(fresh, nil)

	orders := new(mockOrderRepo)
	orders.On("GetByID", "order-1").Return(paidOrder(), nil)

	c := client.NewClient(config.BlingConfig{
		BaseURL:  srv.URL,
		TokenURL: srv.URL + "/oauth/token",
	})

	svc := NewSyncService(tokens, orders, c)
	require.NoError(t, svc.SyncOrder(context.Background(), "order-1"))

	assert.EqualValues(t, 1, atomic.LoadInt32(&orderCalls))
	tokens.AssertNotCalled(t, "Save", mock.Anything)
}

func TestSyncOrderNotConnected(t *testing.T) {
	tokens := new(mockTokenRepo)
	tokens.On("Get", model.DefaultAccount).Return(nil, gorm.ErrRecordNotFound)

	orders := new(mockOrderRepo)
	orders.On("GetByID", "order-1").Return(paidOrder(), nil)

	svc := NewSyncService(tokens, orders, client.NewClient(config.BlingConfig{}))
	err := svc.SyncOrder(context.Background(), "order-1")
	assert.ErrorIs(t, err, ErrNotConnected)
}
