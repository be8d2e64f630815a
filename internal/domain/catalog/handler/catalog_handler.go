package handler

import (
	"errors"
	"net/http"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/catalog/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type ListProductsInput struct {
	utils.Pagination
	Query    string  `form:"q"`
	Category string  `form:"category"`
	Brand    string  `form:"brand"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Featured bool    `form:"featured"`
	Sort     string  `form:"sort" binding:"omitempty,oneof=price_asc price_desc newest"`
}

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Images      []string `json:"images"`
	CategoryID  string   `json:"categoryId"`
	Active      *bool    `json:"active"`
	Featured    *bool    `json:"featured"`
}

type UpdateProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	CategoryID  string   `json:"categoryId"`
	Active      *bool    `json:"active"`
	Featured    *bool    `json:"featured"`
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// ListProducts is the storefront search/browse endpoint.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var input ListProductsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	_, limit := input.GetPageOffset()

	filter := model.ProductFilter{
		Query:        input.Query,
		CategorySlug: input.Category,
		Brand:        input.Brand,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		Featured:     input.Featured,
		Sort:         input.Sort,
	}

	products, total, err := h.service.SearchProducts(filter, input.Page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: products, Total: total, Page: input.Page, Limit: limit})
}

// GetProduct returns one product by slug.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}

// ListCategories returns all categories for navigation.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.GetCategories()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, categories)
}

// CreateProduct is the admin create endpoint.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.CreateProduct(service.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Brand:       input.Brand,
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      input.Images,
		CategoryID:  input.CategoryID,
		Active:      input.Active,
		Featured:    input.Featured,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}

// UpdateProduct is the admin update endpoint.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Param("id"), service.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Brand:       input.Brand,
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      input.Images,
		CategoryID:  input.CategoryID,
		Active:      input.Active,
		Featured:    input.Featured,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}

// DeleteProduct is the admin delete endpoint (soft delete).
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, nil)
}

// CreateCategory is the admin category create endpoint.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	category, err := h.service.CreateCategory(input.Name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, category)
}
