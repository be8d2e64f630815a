package coupon

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule wires discount codes: public validation plus admin CRUD.
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 15
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCouponRepository(ctx.DB)
	svc := service.NewCouponService(repo)
	h := handler.NewCouponHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	// Validation is called by the cart before login is required.
	r.POST("/coupons/validate", h.ValidateCoupon)

	admin := r.Group("/admin/coupons")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/", h.ListCoupons)
		admin.POST("/", h.CreateCoupon)
		admin.PUT("/:id", h.UpdateCoupon)
		admin.DELETE("/:id", h.DeleteCoupon)
	}
}
