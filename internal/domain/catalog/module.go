package catalog

import (
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/cache"

	"github.com/gin-gonic/gin"
)

// CatalogModule wires product/category browsing and the admin catalog CRUD.
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewProductRepository(ctx.DB)
	svc := service.NewCatalogService(repo)

	if ctx.Redis != nil {
		redisCache := cache.NewRedisCache(ctx.Redis, "balao:")
		svc = service.NewCachedCatalogService(svc, redisCache)
	}

	h := handler.NewCatalogHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	g := r.Group("/catalog")
	{
		g.GET("/products", h.ListProducts)
		g.GET("/products/:slug", h.GetProduct)
		g.GET("/categories", h.ListCategories)
	}

	admin := r.Group("/admin/catalog")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.POST("/categories", h.CreateCategory)
	}
}
