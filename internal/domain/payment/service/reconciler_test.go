package service

import (
	"context"
	"testing"

	orderModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Seen(eventID string) (bool, error) {
	args := m.Called(eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEventRepo) MarkProcessed(eventID, provider string) error {
	return m.Called(eventID, provider).Error(0)
}

type mockGateway struct {
	mock.Mock
	name string
}

func (m *mockGateway) Name() string { return m.name }

func (m *mockGateway) CreatePayment(ctx context.Context, req gateway.CreatePaymentRequest) (*gateway.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CreatePaymentResponse), args.Error(1)
}

func (m *mockGateway) CheckStatus(ctx context.Context, transactionID string) (*gateway.PaymentStatus, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentStatus), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendOrderConfirmation(order *orderModel.Order) error {
	return m.Called(order).Error(0)
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncOrder(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func pendingOrder() *orderModel.Order {
	order := &orderModel.Order{
		CustomerID:    "customer-1",
		Status:        orderModel.StatusPending,
		PaymentStatus: orderModel.PaymentPending,
	}
	order.ID = "order-1"
	return order
}

func TestHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("approved payment confirms the order and fires side effects", func(t *testing.T) {
		orders := new(mockOrderRepo)
		events := new(mockEventRepo)
		mailer := new(mockMailer)
		syncer := new(mockSyncer)
		mp := &mockGateway{name: gateway.ProviderMercadoPago}

		events.On("Seen", "evt-1").Return(false, nil)
		mp.On("CheckStatus", ctx, "tx-1").Return(&gateway.PaymentStatus{
			TransactionID: "tx-1", OrderID: "order-1", Status: "approved",
		}, nil)
		orders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		orders.On("SetPaymentStatus", "order-1", orderModel.PaymentPaid).Return(nil)
		orders.On("SetStatus", "order-1", orderModel.StatusConfirmed).Return(nil)
		mailer.On("SendOrderConfirmation", mock.Anything).Return(nil)
		syncer.On("SyncOrder", mock.Anything, "order-1").Return(nil)
		events.On("MarkProcessed", "evt-1", gateway.ProviderMercadoPago).Return(nil)

		r := NewReconciler(gateway.Registry{gateway.ProviderMercadoPago: mp}, orders, events, mailer, syncer)
		err := r.HandleNotification(ctx, gateway.ProviderMercadoPago, "tx-1", "evt-1")

		assert.NoError(t, err)
		orders.AssertExpectations(t)
		mailer.AssertExpectations(t)
		syncer.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("replayed event is acknowledged without touching the order", func(t *testing.T) {
		orders := new(mockOrderRepo)
		events := new(mockEventRepo)
		mp := &mockGateway{name: gateway.ProviderMercadoPago}

		events.On("Seen", "evt-1").Return(true, nil)

		r := NewReconciler(gateway.Registry{gateway.ProviderMercadoPago: mp}, orders, events, nil, nil)
		err := r.HandleNotification(ctx, gateway.ProviderMercadoPago, "tx-1", "evt-1")

		assert.NoError(t, err)
		orders.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything)
		mp.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything)
	})

	t.Run("already confirmed order does not refire side effects", func(t *testing.T) {
		orders := new(mockOrderRepo)
		events := new(mockEventRepo)
		mailer := new(mockMailer)
		mp := &mockGateway{name: gateway.ProviderMercadoPago}

		confirmed := pendingOrder()
		confirmed.Status = orderModel.StatusConfirmed
		confirmed.PaymentStatus = orderModel.PaymentPaid

		events.On("Seen", "evt-2").Return(false, nil)
		mp.On("CheckStatus", ctx, "tx-1").Return(&gateway.PaymentStatus{
			TransactionID: "tx-1", OrderID: "order-1", Status: "approved",
		}, nil)
		orders.On("GetByID", "order-1").Return(confirmed, nil)
		orders.On("SetPaymentStatus", "order-1", orderModel.PaymentPaid).Return(nil)
		events.On("MarkProcessed", "evt-2", gateway.ProviderMercadoPago).Return(nil)

		r := NewReconciler(gateway.Registry{gateway.ProviderMercadoPago: mp}, orders, events, mailer, nil)
		err := r.HandleNotification(ctx, gateway.ProviderMercadoPago, "tx-1", "evt-2")

		assert.NoError(t, err)
		orders.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything)
	})

	t.Run("order resolved by transaction id when reference is missing", func(t *testing.T) {
		orders := new(mockOrderRepo)
		events := new(mockEventRepo)
		asaas := &mockGateway{name: gateway.ProviderAsaas}

		events.On("Seen", "evt-3").Return(false, nil)
		asaas.On("CheckStatus", ctx, "pay_1").Return(&gateway.PaymentStatus{
			TransactionID: "pay_1", Status: "PENDING",
		}, nil)
		orders.On("GetByTransactionID", "pay_1").Return(pendingOrder(), nil)
		orders.On("SetPaymentStatus", "order-1", orderModel.PaymentPending).Return(nil)
		events.On("MarkProcessed", "evt-3", gateway.ProviderAsaas).Return(nil)

		r := NewReconciler(gateway.Registry{gateway.ProviderAsaas: asaas}, orders, events, nil, nil)
		err := r.HandleNotification(ctx, gateway.ProviderAsaas, "pay_1", "evt-3")

		assert.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("unknown provider", func(t *testing.T) {
		events := new(mockEventRepo)
		events.On("Seen", "evt-4").Return(false, nil)

		r := NewReconciler(gateway.Registry{}, new(mockOrderRepo), events, nil, nil)
		err := r.HandleNotification(ctx, "pagseguro", "tx-1", "evt-4")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("mailer failure does not fail the webhook", func(t *testing.T) {
		orders := new(mockOrderRepo)
		events := new(mockEventRepo)
		mailer := new(mockMailer)
		mp := &mockGateway{name: gateway.ProviderMercadoPago}

		events.On("Seen", "evt-5").Return(false, nil)
		mp.On("CheckStatus", ctx, "tx-1").Return(&gateway.PaymentStatus{
			TransactionID: "tx-1", OrderID: "order-1", Status: "approved",
		}, nil)
		orders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		orders.On("SetPaymentStatus", "order-1", orderModel.PaymentPaid).Return(nil)
		orders.On("SetStatus", "order-1", orderModel.StatusConfirmed).Return(nil)
		mailer.On("SendOrderConfirmation", mock.Anything).Return(assert.AnError)
		events.On("MarkProcessed", "evt-5", gateway.ProviderMercadoPago).Return(nil)

		r := NewReconciler(gateway.Registry{gateway.ProviderMercadoPago: mp}, orders, events, mailer, nil)
		assert.NoError(t, r.HandleNotification(ctx, gateway.ProviderMercadoPago, "tx-1", "evt-5"))
	})
}

func TestMapProviderStatus(t *testing.T) {
	cases := []struct {
		provider string
		status   string
		want     string
	}{
		{gateway.ProviderMercadoPago, "approved", orderModel.PaymentPaid},
		{gateway.ProviderMercadoPago, "rejected", orderModel.PaymentFailed},
		{gateway.ProviderMercadoPago, "charged_back", orderModel.PaymentRefunded},
		{gateway.ProviderMercadoPago, "in_process", orderModel.PaymentPending},
		{gateway.ProviderAsaas, "RECEIVED", orderModel.PaymentPaid},
		{gateway.ProviderAsaas, "CONFIRMED", orderModel.PaymentPaid},
		{gateway.ProviderAsaas, "OVERDUE", orderModel.PaymentFailed},
		{gateway.ProviderCora, "PAID", orderModel.PaymentPaid},
		{gateway.ProviderCora, "OPEN", orderModel.PaymentPending},
		{gateway.ProviderStripe, "paid", orderModel.PaymentPaid},
		{gateway.ProviderStripe, "unpaid", orderModel.PaymentPending},
		// Unknown vocabulary must never promote an order.
		{gateway.ProviderMercadoPago, "some_new_status", orderModel.PaymentPending},
		{"unknown", "approved", orderModel.PaymentPending},
	}

	for _, tc := range cases {
		t.Run(tc.provider+"/"+tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, MapProviderStatus(tc.provider, tc.status))
		})
	}
}
