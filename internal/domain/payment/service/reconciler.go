package service

import (
	"context"
	"errors"
	"fmt"

	orderModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	orderRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("no order for this payment")
	ErrUnknownProvider = errors.New("provider is not configured")
)

// ConfirmationMailer sends the order confirmation email. Nil when the mailer
// is not configured.
type ConfirmationMailer interface {
	SendOrderConfirmation(order *orderModel.Order) error
}

// OrderSyncer pushes a paid order to the ERP. Nil when Bling is not connected.
type OrderSyncer interface {
	SyncOrder(ctx context.Context, orderID string) error
}

// Reconciler turns provider notifications into order state. Notification
// bodies are treated as hints only: the payment is always fetched back from
// the provider before anything changes.
type Reconciler interface {
	HandleNotification(ctx context.Context, provider, transactionID, eventID string) error
}

type reconciler struct {
	gateways gateway.Registry
	orders   orderRepo.OrderRepository
	events   repository.WebhookEventRepository
	mailer   ConfirmationMailer
	syncer   OrderSyncer
}

func NewReconciler(
	gateways gateway.Registry,
	orders orderRepo.OrderRepository,
	events repository.WebhookEventRepository,
	mailer ConfirmationMailer,
	syncer OrderSyncer,
) Reconciler {
	return &reconciler{
		gateways: gateways,
		orders:   orders,
		events:   events,
		mailer:   mailer,
		syncer:   syncer,
	}
}

func (r *reconciler) HandleNotification(ctx context.Context, provider, transactionID, eventID string) error {
	seen, err := r.events.Seen(eventID)
	if err != nil {
		return err
	}
	if seen {
		metrics.Default.ObserveWebhook(provider, "duplicate")
		logger.Log.Info("webhook replay skipped",
			zap.String("provider", provider),
			zap.String("event_id", eventID))
		return nil
	}

	g, ok := r.gateways.Get(provider)
	if !ok {
		return ErrUnknownProvider
	}

	status, err := g.CheckStatus(ctx, transactionID)
	if err != nil {
		metrics.Default.ObserveWebhook(provider, "upstream_error")
		return fmt.Errorf("fetch payment %s: %w", transactionID, err)
	}

	order, err := r.findOrder(status)
	if err != nil {
		metrics.Default.ObserveWebhook(provider, "order_not_found")
		return err
	}

	paymentStatus := MapProviderStatus(provider, status.Status)

	// Overwrite, never compare-and-set: replays of the same final state
	// converge on the same row.
	if err := r.orders.SetPaymentStatus(order.ID, paymentStatus); err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}

	if paymentStatus == orderModel.PaymentPaid && order.Status == orderModel.StatusPending {
		if err := r.orders.SetStatus(order.ID, orderModel.StatusConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}
		r.afterPaid(order)
	}

	if err := r.events.MarkProcessed(eventID, provider); err != nil {
		return err
	}

	metrics.Default.ObserveWebhook(provider, paymentStatus)
	logger.Log.Info("payment reconciled",
		zap.String("provider", provider),
		zap.String("order_id", order.ID),
		zap.String("provider_status", status.Status),
		zap.String("payment_status", paymentStatus))
	return nil
}

// findOrder resolves the order by the provider's external reference when it
// carries one, falling back to the stored transaction id.
func (r *reconciler) findOrder(status *gateway.PaymentStatus) (*orderModel.Order, error) {
	if status.OrderID != "" {
		order, err := r.orders.GetByID(status.OrderID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	order, err := r.orders.GetByTransactionID(status.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// afterPaid runs the best-effort side effects of a confirmed payment. Both
// are logged on failure and never fail the webhook: the provider already got
// the money and must get a 200.
func (r *reconciler) afterPaid(order *orderModel.Order) {
	if r.mailer != nil {
		if err := r.mailer.SendOrderConfirmation(order); err != nil {
			logger.Log.Warn("confirmation email failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if r.syncer != nil {
		if err := r.syncer.SyncOrder(context.Background(), order.ID); err != nil {
			logger.Log.Warn("bling sync failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

// MapProviderStatus folds each provider's vocabulary into the internal
// payment status. Anything unrecognized stays pending so a bad mapping can
// never mark an order paid.
func MapProviderStatus(provider, status string) string {
	switch provider {
	case gateway.ProviderStripe:
		switch status {
		case "paid":
			return orderModel.PaymentPaid
		}
	case gateway.ProviderMercadoPago:
		switch status {
		case "approved":
			return orderModel.PaymentPaid
		case "rejected":
			return orderModel.PaymentFailed
		case "refunded", "charged_back":
			return orderModel.PaymentRefunded
		case "cancelled":
			return orderModel.PaymentCancelled
		}
	case gateway.ProviderCora:
		switch status {
		case "PAID":
			return orderModel.PaymentPaid
		case "CANCELLED":
			return orderModel.PaymentCancelled
		}
	case gateway.ProviderAsaas:
		switch status {
		case "RECEIVED", "CONFIRMED", "RECEIVED_IN_CASH":
			return orderModel.PaymentPaid
		case "OVERDUE":
			return orderModel.PaymentFailed
		case "REFUNDED":
			return orderModel.PaymentRefunded
		}
	case gateway.ProviderDigitalManager:
		switch status {
		case "approved", "completed":
			return orderModel.PaymentPaid
		case "refunded", "chargeback":
			return orderModel.PaymentRefunded
		case "cancelled", "expired":
			return orderModel.PaymentCancelled
		}
	}
	return orderModel.PaymentPending
}
