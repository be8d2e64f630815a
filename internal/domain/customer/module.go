package customer

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CustomerModule wires accounts and authentication.
type CustomerModule struct{}

func init() {
	registry.Register(&CustomerModule{})
}

func (m *CustomerModule) Name() string {
	return "customer"
}

func (m *CustomerModule) Priority() int {
	// Runs first; every other module's protected routes assume auth exists.
	return 1
}

func (m *CustomerModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCustomerRepository(ctx.DB)
	svc := service.NewCustomerService(repo)
	h := handler.NewCustomerHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CustomerHandler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	me := r.Group("/customers")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/me", h.Me)
		me.PUT("/me", h.UpdateMe)
	}

	admin := r.Group("/admin/customers")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/", h.ListCustomers)
	}
}
