package middleware

import (
	"net/http"
	"strings"

	customerModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer JWT and stores the customer identity in
// the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("customerID", claims.CustomerID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AdminMiddleware requires the admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Invalid role format")
			c.Abort()
			return
		}

		if roleInt != customerModel.RoleAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CustomerID returns the authenticated customer id from the context.
func CustomerID(c *gin.Context) string {
	val, _ := c.Get("customerID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(c *gin.Context) bool {
	role, exists := c.Get("role")
	if !exists {
		return false
	}
	roleInt, ok := role.(int)
	return ok && roleInt == customerModel.RoleAdmin
}
