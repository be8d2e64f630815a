package bling

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/client"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/service"
	orderRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BlingModule wires the ERP integration.
type BlingModule struct{}

func init() {
	registry.Register(&BlingModule{})
}

func (m *BlingModule) Name() string {
	return "bling"
}

func (m *BlingModule) Priority() int {
	return 22
}

func (m *BlingModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig.Bling
	if cfg.ClientID == "" {
		logger.Log.Warn("bling not configured, ERP sync disabled")
		return nil
	}

	tokens := repository.NewTokenRepository(ctx.DB)
	orders := orderRepo.NewOrderRepository(ctx.DB)
	svc := service.NewSyncService(tokens, orders, client.NewClient(cfg))
	h := handler.NewBlingHandler(svc, orders)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.BlingHandler) {
	g := r.Group("/bling")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/sync/:orderID", h.SyncOrder)
	}

	admin := r.Group("/admin/bling")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/connect", h.Connect)
	}
}
