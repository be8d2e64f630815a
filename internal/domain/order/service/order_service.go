package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	catalogRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/repository"
	couponModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"
	couponService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/service"
	customerModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/model"
	customerRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/metrics"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart           = errors.New("cart has no items")
	ErrInvalidDocument     = errors.New("invalid CPF/CNPJ")
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductUnavailable  = errors.New("product is unavailable")
	ErrProviderUnavailable = errors.New("payment provider is not configured")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// CouponError wraps a coupon rejection so the handler can surface the reason.
type CouponError struct {
	Reason string
}

func (e *CouponError) Error() string {
	return "coupon rejected: " + e.Reason
}

// CartItem is one checkout line as submitted by the storefront. Only the id
// and the quantity are taken from the client.
type CartItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutInput is the checkout request after binding.
type CheckoutInput struct {
	Items      []CartItem `json:"items"`
	Provider   string     `json:"provider" binding:"required"`
	CouponCode string     `json:"coupon_code"`
	Document   string     `json:"document"`
}

// CheckoutResult is what the storefront needs to continue the payment.
type CheckoutResult struct {
	Order       *model.Order        `json:"order"`
	CheckoutURL string              `json:"checkoutUrl,omitempty"`
	Pix         *gateway.PixPayload `json:"pix,omitempty"`
}

type OrderService interface {
	// Checkout prices the cart server-side, creates the order and opens the
	// payment at the chosen provider.
	Checkout(ctx context.Context, customerID string, input CheckoutInput) (*CheckoutResult, error)

	GetOrder(id string) (*model.Order, error)
	GetCustomerOrders(customerID string, page, limit int) ([]model.Order, int64, error)
	GetOrders(status string, page, limit int) ([]model.Order, int64, error)

	// UpdateStatus moves an order through fulfillment. Only forward
	// transitions are allowed; payment status is owned by the reconciler.
	UpdateStatus(id, status string) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	products  catalogRepo.ProductRepository
	customers customerRepo.CustomerRepository
	coupons   couponService.CouponService
	gateways  gateway.Registry
}

func NewOrderService(
	orders repository.OrderRepository,
	products catalogRepo.ProductRepository,
	customers customerRepo.CustomerRepository,
	coupons couponService.CouponService,
	gateways gateway.Registry,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		customers: customers,
		coupons:   coupons,
		gateways:  gateways,
	}
}

func (s *orderService) Checkout(ctx context.Context, customerID string, input CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if input.Document != "" {
		if !validator.IsValidDocument(input.Document) {
			return nil, ErrInvalidDocument
		}
		input.Document = validator.NormalizeDocument(input.Document)
	}

	g, ok := s.gateways.Get(input.Provider)
	if !ok {
		return nil, ErrProviderUnavailable
	}

	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	items, subtotal, err := s.priceItems(input.Items)
	if err != nil {
		return nil, err
	}

	var discount float64
	var coupon *couponModel.Coupon
	if input.CouponCode != "" {
		c, validation, err := s.coupons.ValidateCoupon(input.CouponCode, subtotal)
		if err != nil {
			if errors.Is(err, couponService.ErrCouponNotFound) {
				return nil, &CouponError{Reason: couponModel.ReasonNotFound}
			}
			return nil, err
		}
		if !validation.Valid {
			return nil, &CouponError{Reason: validation.Reason}
		}
		coupon = c
		discount = validation.DiscountAmount
	}

	snapshot, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      customer.ID,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		Items:           snapshot,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           subtotal - discount,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: formatAddress(customer),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if coupon != nil {
		if err := s.coupons.Redeem(coupon.ID); err != nil {
			// The guarded increment lost a race on the last use.
			return nil, &CouponError{Reason: couponModel.ReasonUsageLimit}
		}
	}

	payment, err := g.CreatePayment(ctx, gateway.CreatePaymentRequest{
		OrderID: order.ID,
		Items:   toGatewayItems(items),
		Customer: gateway.Customer{
			Name:     customer.Name,
			Email:    customer.Email,
			Phone:    customer.Phone,
			Document: input.Document,
		},
	})
	if err != nil {
		// The use was consumed but no payment exists; give it back so the
		// shopper's retry does not burn a second one.
		if coupon != nil {
			if relErr := s.coupons.Release(coupon.ID); relErr != nil {
				logger.Log.Warn("coupon release failed",
					zap.String("coupon_id", coupon.ID),
					zap.Error(relErr))
			}
		}
		metrics.Default.ObservePayment(input.Provider, "error")
		return nil, err
	}

	if err := s.orders.SetTransaction(order.ID, payment.TransactionID, g.Name()); err != nil {
		return nil, fmt.Errorf("attach transaction: %w", err)
	}
	order.TransactionID = payment.TransactionID
	order.PaymentProvider = g.Name()

	metrics.Default.ObservePayment(input.Provider, "created")
	logger.Log.Info("checkout created",
		zap.String("order_id", order.ID),
		zap.String("provider", g.Name()),
		zap.Float64("total", order.Total))

	return &CheckoutResult{
		Order:       order,
		CheckoutURL: payment.CheckoutURL,
		Pix:         payment.Pix,
	}, nil
}

// priceItems loads every product and prices the cart from the catalog, never
// from the request.
func (s *orderService) priceItems(cart []CartItem) ([]model.OrderItem, float64, error) {
	items := make([]model.OrderItem, 0, len(cart))
	var subtotal float64

	for _, line := range cart {
		product, err := s.products.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
			}
			return nil, 0, err
		}
		if !product.Active {
			return nil, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Image:     firstImage(product.Images),
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	return items, subtotal, nil
}

func toGatewayItems(items []model.OrderItem) []gateway.Item {
	out := make([]gateway.Item, 0, len(items))
	for _, item := range items {
		out = append(out, gateway.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}
	return out
}

func firstImage(images json.RawMessage) string {
	var urls []string
	if err := json.Unmarshal(images, &urls); err != nil || len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// formatAddress flattens the customer's address into the single snapshot
// column. Empty parts are skipped so partial profiles stay readable.
func formatAddress(c *customerModel.Customer) string {
	parts := make([]string, 0, 5)
	if c.AddressStreet != "" {
		street := c.AddressStreet
		if c.AddressNumber != "" {
			street += ", " + c.AddressNumber
		}
		parts = append(parts, street)
	}
	if c.AddressComplement != "" {
		parts = append(parts, c.AddressComplement)
	}
	if c.AddressCity != "" {
		parts = append(parts, c.AddressCity)
	}
	if c.AddressState != "" {
		parts = append(parts, c.AddressState)
	}
	if c.AddressZip != "" {
		parts = append(parts, "CEP "+c.AddressZip)
	}
	return strings.Join(parts, " - ")
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetCustomerOrders(customerID string, page, limit int) ([]model.Order, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.orders.GetByCustomer(customerID, offset, limit)
}

func (s *orderService) GetOrders(status string, page, limit int) ([]model.Order, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.orders.GetList(status, offset, limit)
}

// validTransitions maps each fulfillment status to where it may go next.
var validTransitions = map[string][]string{
	model.StatusPending:    {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:  {model.StatusProcessing, model.StatusCancelled},
	model.StatusProcessing: {model.StatusShipped, model.StatusCancelled},
	model.StatusShipped:    {model.StatusDelivered},
}

func (s *orderService) UpdateStatus(id, status string) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orders.SetStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
