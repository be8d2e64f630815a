package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order"
	_ "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/common"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/database"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	logger.InitLogger(config.GlobalConfig.Server.Mode)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	gin.SetMode(config.GlobalConfig.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware())

	health := common.NewHealthHandler(db, rdb)
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	moduleCtx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   router,
		Gateways: gateway.NewRegistryFromConfig(),
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("module initialization failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// corsMiddleware allows the storefront origin plus the payment providers'
// webhook calls (which are plain server-to-server POSTs and unaffected by
// CORS anyway).
func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if config.GlobalConfig.App.FrontendURL != "" {
		cfg.AllowOrigins = []string{config.GlobalConfig.App.FrontendURL}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = config.GlobalConfig.App.FrontendURL != ""
	return cors.New(cfg)
}
