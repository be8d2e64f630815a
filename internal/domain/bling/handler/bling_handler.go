package handler

import (
	"errors"
	"net/http"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/bling/service"
	orderRepo "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/repository"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BlingHandler struct {
	service service.SyncService
	orders  orderRepo.OrderRepository
}

func NewBlingHandler(s service.SyncService, orders orderRepo.OrderRepository) *BlingHandler {
	return &BlingHandler{service: s, orders: orders}
}

type ConnectInput struct {
	Code string `json:"code" binding:"required"`
}

// Connect stores the first token pair from the admin OAuth flow.
func (h *BlingHandler) Connect(c *gin.Context) {
	var input ConnectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.Connect(c.Request.Context(), input.Code); err != nil {
		response.Error(c, http.StatusBadGateway, response.ErrBlingUpstream, err.Error())
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// SyncOrder pushes one order to the ERP. The caller must own the order or be
// an admin; failures are reported but never affect the order itself.
func (h *BlingHandler) SyncOrder(c *gin.Context) {
	orderID := c.Param("orderID")

	order, err := h.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if order.CustomerID != middleware.CustomerID(c) && !middleware.IsAdmin(c) {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "not the order owner")
		return
	}

	if err := h.service.SyncOrder(c.Request.Context(), orderID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotConnected):
			response.Error(c, http.StatusInternalServerError, response.ErrBlingNotConnected, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
		default:
			response.Error(c, http.StatusBadGateway, response.ErrBlingUpstream, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"ok": true})
}
