package common

import (
	"net/http"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health is the liveness probe: the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// Ready is the readiness probe: dependencies answer. Redis is optional and
// only checked when configured.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "database: "+err.Error())
		return
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "redis: "+err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
