package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/coupon/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(s service.CouponService) *CouponHandler {
	return &CouponHandler{service: s}
}

type ValidateCouponInput struct {
	Code       string  `json:"code" binding:"required"`
	OrderValue float64 `json:"order_value" binding:"required,gt=0"`
}

type CouponInput struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue float64    `json:"discountValue" binding:"required,gt=0"`
	MinCartValue  float64    `json:"minCartValue" binding:"gte=0"`
	MaxUses       int        `json:"maxUses" binding:"gte=0"`
	StartsAt      *time.Time `json:"startsAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Active        *bool      `json:"active"`
}

type UpdateCouponInput struct {
	DiscountType  string     `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue float64    `json:"discountValue"`
	MinCartValue  float64    `json:"minCartValue"`
	MaxUses       int        `json:"maxUses"`
	StartsAt      *time.Time `json:"startsAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Active        *bool      `json:"active"`
}

func reasonCode(reason string) int {
	switch reason {
	case model.ReasonInactive:
		return response.ErrCouponInactive
	case model.ReasonNotYetValid:
		return response.ErrCouponNotStarted
	case model.ReasonExpired:
		return response.ErrCouponExpired
	case model.ReasonUsageLimit:
		return response.ErrCouponUsageLimit
	case model.ReasonMinCartValue:
		return response.ErrCouponMinCartValue
	default:
		return response.CodeError
	}
}

// ValidateCoupon is the checkout RPC. The response shape is fixed for the
// storefront client: {success, discount, coupon_id} on success,
// {success:false, error:{code,message}} otherwise.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": response.ErrInvalidParam, "message": err.Error()},
		})
		return
	}

	coupon, validation, err := h.service.ValidateCoupon(input.Code, input.OrderValue)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   gin.H{"code": response.ErrCouponNotFound, "message": "coupon not found"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": response.ErrServerInternal, "message": err.Error()},
		})
		return
	}

	if !validation.Valid {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   gin.H{"code": reasonCode(validation.Reason), "message": validation.Reason},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"discount":  validation.DiscountAmount,
		"coupon_id": coupon.ID,
	})
}

// CreateCoupon is the admin create endpoint.
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.CreateCoupon(service.CouponInput{
		Code:          input.Code,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MinCartValue:  input.MinCartValue,
		MaxUses:       input.MaxUses,
		StartsAt:      input.StartsAt,
		ExpiresAt:     input.ExpiresAt,
		Active:        input.Active,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon is the admin update endpoint.
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var input UpdateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Param("id"), service.CouponInput{
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MinCartValue:  input.MinCartValue,
		MaxUses:       input.MaxUses,
		StartsAt:      input.StartsAt,
		ExpiresAt:     input.ExpiresAt,
		Active:        input.Active,
	})
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon is the admin delete endpoint.
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.service.DeleteCoupon(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, nil)
}

// ListCoupons is the admin listing endpoint.
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	coupons, total, err := h.service.GetCoupons(p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: coupons, Total: total, Page: p.Page, Limit: limit})
}
