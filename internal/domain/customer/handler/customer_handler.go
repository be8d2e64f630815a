package handler

import (
	"errors"
	"net/http"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/customer/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	AddressStreet     string `json:"addressStreet"`
	AddressNumber     string `json:"addressNumber"`
	AddressComplement string `json:"addressComplement"`
	AddressCity       string `json:"addressCity"`
	AddressState      string `json:"addressState"`
	AddressZip        string `json:"addressZip"`
}

// Register creates an account and returns a session token.
func (h *CustomerHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customer, token, err := h.service.Register(input.Name, input.Email, input.Password, input.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, response.ErrCustomerExists, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"customer": customer, "token": token})
}

// Login authenticates and returns a session token.
func (h *CustomerHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customer, token, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"customer": customer, "token": token})
}

// Me returns the authenticated customer's profile.
func (h *CustomerHandler) Me(c *gin.Context) {
	customer, err := h.service.GetCustomer(middleware.CustomerID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCustomerNotFound, "customer not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, customer)
}

// UpdateMe updates the authenticated customer's profile.
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customer, err := h.service.UpdateProfile(middleware.CustomerID(c), service.ProfileUpdate{
		Name:              input.Name,
		Phone:             input.Phone,
		AddressStreet:     input.AddressStreet,
		AddressNumber:     input.AddressNumber,
		AddressComplement: input.AddressComplement,
		AddressCity:       input.AddressCity,
		AddressState:      input.AddressState,
		AddressZip:        input.AddressZip,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, customer)
}

// ListCustomers is the admin listing endpoint.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := p.GetPageOffset()

	customers, total, err := h.service.GetCustomers(p.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: customers, Total: total, Page: p.Page, Limit: limit})
}
