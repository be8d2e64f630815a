package order

import (
	catalogRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/repository"
	couponRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/repository"
	couponService "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/service"
	customerRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule wires checkout and fulfillment.
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 25
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	svc := service.NewOrderService(
		repository.NewOrderRepository(ctx.DB),
		catalogRepo.NewProductRepository(ctx.DB),
		customerRepo.NewCustomerRepository(ctx.DB),
		couponService.NewCouponService(couponRepo.NewCouponRepository(ctx.DB)),
		ctx.Gateways,
	)

	setupRoutes(ctx.Router, handler.NewOrderHandler(svc))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/checkout", h.Checkout)
		g.GET("", h.ListMine)
		g.GET("/:id", h.GetOrder)
	}

	admin := r.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.List)
		admin.PUT("/:id/status", h.UpdateStatus)
	}
}
