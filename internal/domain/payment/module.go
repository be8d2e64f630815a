package payment

import (
	blingClient "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/client"
	blingRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/repository"
	blingService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/service"
	mailerService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/service"
	orderRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the gateway registry and the webhook reconciler.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig
	gateways := ctx.Gateways

	orders := orderRepo.NewOrderRepository(ctx.DB)
	events := repository.NewWebhookEventRepository(ctx.DB)

	var mailer service.ConfirmationMailer
	if sg, err := mailerService.NewSendGridMailer(cfg.SendGrid, cfg.App); err == nil {
		mailer = sg
	}

	var syncer service.OrderSyncer
	if cfg.Bling.ClientID != "" {
		tokens := blingRepo.NewTokenRepository(ctx.DB)
		syncer = blingService.NewSyncService(tokens, orders, blingClient.NewClient(cfg.Bling))
	}

	reconciler := service.NewReconciler(gateways, orders, events, mailer, syncer)

	setupRoutes(ctx.Router, handler.NewWebhookHandler(reconciler), handler.NewPaymentHandler(gateways))

	logger.Log.Info("payment module initialized")
	return nil
}

func setupRoutes(r *gin.Engine, wh *handler.WebhookHandler, ph *handler.PaymentHandler) {
	g := r.Group("/payments")
	{
		g.GET("/providers", ph.Providers)
		g.POST("/webhook/stripe", wh.Stripe)
		g.POST("/webhook/mercadopago", wh.MercadoPago)
		g.POST("/webhook/cora", wh.Cora)
		g.POST("/webhook/asaas", wh.Asaas)
		g.POST("/webhook/digitalmanager", wh.DigitalManager)
	}
}
