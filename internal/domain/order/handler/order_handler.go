package handler

import (
	"errors"
	"net/http"

	couponModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// Checkout creates an order from the authenticated customer's cart and opens
// a payment at the chosen provider.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), middleware.CustomerID(c), input)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	response.Success(c, result)
}

func (h *OrderHandler) checkoutError(c *gin.Context, err error) {
	var couponErr *service.CouponError
	var upstream *gateway.UpstreamError
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		response.Error(c, http.StatusBadRequest, response.ErrEmptyCart, err.Error())
	case errors.Is(err, service.ErrProductUnavailable), errors.Is(err, service.ErrInvalidDocument):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrProviderUnavailable):
		response.Error(c, http.StatusBadRequest, response.ErrGatewayNotConfigured, err.Error())
	case errors.As(err, &couponErr):
		response.Error(c, http.StatusBadRequest, couponErrorCode(couponErr.Reason), couponErr.Reason)
	case errors.As(err, &upstream):
		response.Error(c, http.StatusBadGateway, response.ErrGatewayUpstream, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

func couponErrorCode(reason string) int {
	switch reason {
	case couponModel.ReasonInactive:
		return response.ErrCouponInactive
	case couponModel.ReasonNotYetValid:
		return response.ErrCouponNotStarted
	case couponModel.ReasonExpired:
		return response.ErrCouponExpired
	case couponModel.ReasonUsageLimit:
		return response.ErrCouponUsageLimit
	case couponModel.ReasonMinCartValue:
		return response.ErrCouponMinCartValue
	default:
		return response.ErrCouponNotFound
	}
}

// GetOrder returns one order to its owner or to an admin.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if order.CustomerID != middleware.CustomerID(c) && !middleware.IsAdmin(c) {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "not the order owner")
		return
	}

	response.Success(c, order)
}

// ListMine returns the authenticated customer's orders, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	orders, total, err := h.service.GetCustomerOrders(middleware.CustomerID(c), p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: orders, Total: total, Page: p.Page, Limit: limit})
}

// List returns all orders for the back office, optionally filtered by status.
func (h *OrderHandler) List(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	orders, total, err := h.service.GetOrders(c.Query("status"), p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: orders, Total: total, Page: p.Page, Limit: limit})
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an order through fulfillment.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			response.Error(c, http.StatusConflict, response.ErrInvalidTransition, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, order)
}
