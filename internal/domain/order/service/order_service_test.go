package service

import (
	"context"
	"testing"

	catalogModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/model"
	couponModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"
	couponService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/service"
	customerModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(order *model.Order) error {
	args := m.Called(order)
	if order.ID == "" {
		order.ID = "order-1"
	}
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByTransactionID(transactionID string) (*model.Order, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(customerID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) GetList(status string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
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

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(product *catalogModel.Product) error {
	return m.Called(product).Error(0)
}

func (m *mockProductRepo) GetByID(id string) (*catalogModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(slug string) (*catalogModel.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *mockProductRepo) Search(filter catalogModel.ProductFilter, offset, limit int) ([]catalogModel.Product, int64, error) {
	args := m.Called(filter, offset, limit)
	return args.Get(0).([]catalogModel.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) Update(product *catalogModel.Product) error {
	return m.Called(product).Error(0)
}

func (m *mockProductRepo) Delete(product *catalogModel.Product) error {
	return m.Called(product).Error(0)
}

func (m *mockProductRepo) CreateCategory(category *catalogModel.Category) error {
	return m.Called(category).Error(0)
}

func (m *mockProductRepo) GetCategories() ([]catalogModel.Category, error) {
	args := m.Called()
	return args.Get(0).([]catalogModel.Category), args.Error(1)
}

func (m *mockProductRepo) GetCategoryBySlug(slug string) (*catalogModel.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Category), args.Error(1)
}

func (m *mockProductRepo) DeleteCategory(category *catalogModel.Category) error {
	return m.Called(category).Error(0)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(customer *customerModel.Customer) error {
	return m.Called(customer).Error(0)
}

func (m *mockCustomerRepo) GetByID(id string) (*customerModel.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetByEmail(email string) (*customerModel.Customer, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetList(offset, limit int) ([]customerModel.Customer, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]customerModel.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomerRepo) Update(customer *customerModel.Customer) error {
	return m.Called(customer).Error(0)
}

type mockCouponService struct {
	mock.Mock
}

func (m *mockCouponService) ValidateCoupon(code string, subtotal float64) (*couponModel.Coupon, couponModel.Validation, error) {
	args := m.Called(code, subtotal)
	if args.Get(0) == nil {
		return nil, args.Get(1).(couponModel.Validation), args.Error(2)
	}
	return args.Get(0).(*couponModel.Coupon), args.Get(1).(couponModel.Validation), args.Error(2)
}

func (m *mockCouponService) Redeem(couponID string) error {
	return m.Called(couponID).Error(0)
}

func (m *mockCouponService) Release(couponID string) error {
	return m.Called(couponID).Error(0)
}

func (m *mockCouponService) CreateCoupon(input couponService.CouponInput) (*couponModel.Coupon, error) {
	args := m.Called(input)
	return args.Get(0).(*couponModel.Coupon), args.Error(1)
}

func (m *mockCouponService) UpdateCoupon(id string, input couponService.CouponInput) (*couponModel.Coupon, error) {
	args := m.Called(id, input)
	return args.Get(0).(*couponModel.Coupon), args.Error(1)
}

func (m *mockCouponService) DeleteCoupon(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCouponService) GetCoupons(page, limit int) ([]couponModel.Coupon, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]couponModel.Coupon), args.Get(1).(int64), args.Error(2)
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

func testProduct(id string, price float64) *catalogModel.Product {
	p := &catalogModel.Product{
		Name:   "Produto " + id,
		Price:  price,
		Active: true,
	}
	p.ID = id
	return p
}

func testCustomer() *customerModel.Customer {
	c := &customerModel.Customer{
		Name:  "Maria",
		Email: "maria@example.com",
		Phone: "11999990000",
	}
	c.ID = "customer-1"
	return c
}

type checkoutFixture struct {
	orders    *mockOrderRepo
	products  *mockProductRepo
	customers *mockCustomerRepo
	coupons   *mockCouponService
	gw        *mockGateway
	service   OrderService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orders:    new(mockOrderRepo),
		products:  new(mockProductRepo),
		customers: new(mockCustomerRepo),
		coupons:   new(mockCouponService),
		gw:        &mockGateway{name: gateway.ProviderAsaas},
	}
	f.service = NewOrderService(f.orders, f.products, f.customers, f.coupons,
		gateway.Registry{gateway.ProviderAsaas: f.gw})
	return f
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{Provider: gateway.ProviderAsaas})
		assert.ErrorIs(t, err, ErrEmptyCart)
		f.orders.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("unconfigured provider is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:    []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider: "stripe",
		})
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("prices come from the catalog", func(t *testing.T) {
		f := newCheckoutFixture()
		f.customers.On("GetByID", "customer-1").Return(testCustomer(), nil)
		f.products.On("GetByID", "p1").Return(testProduct("p1", 100), nil)
		f.products.On("GetByID", "p2").Return(testProduct("p2", 25.5), nil)
		f.orders.On("Create", mock.Anything).Return(nil)
		f.gw.On("CreatePayment", ctx, mock.MatchedBy(func(req gateway.CreatePaymentRequest) bool {
			return gateway.Amount(req.Items) == 251.0
		})).Return(&gateway.CreatePaymentResponse{TransactionID: "pay_1"}, nil)
		f.orders.On("SetTransaction", "order-1", "pay_1", gateway.ProviderAsaas).Return(nil)

		result, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items: []CartItem{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 2},
			},
			Provider: gateway.ProviderAsaas,
		})

		require.NoError(t, err)
		assert.Equal(t, 251.0, result.Order.Subtotal)
		assert.Equal(t, 251.0, result.Order.Total)
		assert.Equal(t, "pay_1", result.Order.TransactionID)
		assert.Equal(t, "Maria", result.Order.CustomerName)
		f.orders.AssertExpectations(t)
		f.gw.AssertExpectations(t)
	})

	t.Run("inactive product blocks checkout", func(t *testing.T) {
		f := newCheckoutFixture()
		inactive := testProduct("p1", 100)
		inactive.Active = false
		f.customers.On("GetByID", "customer-1").Return(testCustomer(), nil)
		f.products.On("GetByID", "p1").Return(inactive, nil)

		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:    []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider: gateway.ProviderAsaas,
		})
		assert.ErrorIs(t, err, ErrProductUnavailable)
		f.orders.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("valid coupon is applied and redeemed once", func(t *testing.T) {
		f := newCheckoutFixture()
		coupon := &couponModel.Coupon{Code: "PROMO10"}
		coupon.ID = "coupon-1"

		f.customers.On("GetByID", "customer-1").Return(testCustomer(), nil)
		f.products.On("GetByID", "p1").Return(testProduct("p1", 1000), nil)
		f.coupons.On("ValidateCoupon", "PROMO10", 1000.0).
			Return(coupon, couponModel.Validation{Valid: true, DiscountAmount: 100}, nil)
		f.orders.On("Create", mock.Anything).Return(nil)
		f.coupons.On("Redeem", "coupon-1").Return(nil).Once()
		f.gw.On("CreatePayment", ctx, mock.Anything).
			Return(&gateway.CreatePaymentResponse{TransactionID: "pay_1"}, nil)
		f.orders.On("SetTransaction", "order-1", "pay_1", gateway.ProviderAsaas).Return(nil)

		result, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:      []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider:   gateway.ProviderAsaas,
			CouponCode: "PROMO10",
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, result.Order.Discount)
		assert.Equal(t, 900.0, result.Order.Total)
		assert.Equal(t, "PROMO10", result.Order.CouponCode)
		f.coupons.AssertExpectations(t)
	})

	t.Run("gateway failure releases the redeemed coupon use", func(t *testing.T) {
		f := newCheckoutFixture()
		coupon := &couponModel.Coupon{Code: "PROMO10"}
		coupon.ID = "coupon-1"

		f.customers.On("GetByID", "customer-1").Return(testCustomer(), nil)
		f.products.On("GetByID", "p1").Return(testProduct("p1", 1000), nil)
		f.coupons.On("ValidateCoupon", "PROMO10", 1000.0).
			Return(coupon, couponModel.Validation{Valid: true, DiscountAmount: 100}, nil)
		f.orders.On("Create", mock.Anything).Return(nil)
		f.coupons.On("Redeem", "coupon-1").Return(nil).Once()
		f.gw.On("CreatePayment", ctx, mock.Anything).
			Return(nil, &gateway.UpstreamError{Provider: gateway.ProviderAsaas, StatusCode: 500})
		f.coupons.On("Release", "coupon-1").Return(nil).Once()

		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:      []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider:   gateway.ProviderAsaas,
			CouponCode: "PROMO10",
		})

		var upstream *gateway.UpstreamError
		require.ErrorAs(t, err, &upstream)
		f.coupons.AssertExpectations(t)
		f.orders.AssertNotCalled(t, "SetTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected coupon stops checkout with the reason", func(t *testing.T) {
		f := newCheckoutFixture()
		f.customers.On("GetByID", "customer-1").Return(testCustomer(), nil)
		f.products.On("GetByID", "p1").Return(testProduct("p1", 100), nil)
		f.coupons.On("ValidateCoupon", "OLD", 100.0).
			Return(&couponModel.Coupon{}, couponModel.Validation{Reason: couponModel.ReasonExpired}, nil)

		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:      []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider:   gateway.ProviderAsaas,
			CouponCode: "OLD",
		})

		var couponErr *CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, couponModel.ReasonExpired, couponErr.Reason)
		f.orders.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("malformed document is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.service.Checkout(ctx, "customer-1", CheckoutInput{
			Items:    []CartItem{{ProductID: "p1", Quantity: 1}},
			Provider: gateway.ProviderAsaas,
			Document: "123.456.789-00",
		})
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("forward transition", func(t *testing.T) {
		orders := new(mockOrderRepo)
		order := &model.Order{Status: model.StatusConfirmed}
		order.ID = "order-1"
		orders.On("GetByID", "order-1").Return(order, nil)
		orders.On("SetStatus", "order-1", model.StatusProcessing).Return(nil)

		s := NewOrderService(orders, nil, nil, nil, nil)
		updated, err := s.UpdateStatus("order-1", model.StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessing, updated.Status)
	})

	t.Run("backwards transition is refused", func(t *testing.T) {
		orders := new(mockOrderRepo)
		order := &model.Order{Status: model.StatusDelivered}
		order.ID = "order-1"
		orders.On("GetByID", "order-1").Return(order, nil)

		s := NewOrderService(orders, nil, nil, nil, nil)
		_, err := s.UpdateStatus("order-1", model.StatusPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		orders.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
	})
}
