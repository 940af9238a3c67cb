package handler

import (
	"net/http"
	"strings"

	"retailpos/internal/apierror"
	"retailpos/internal/dto"
	"retailpos/internal/middleware"
	"retailpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary List products with optional category/search filters
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Name/SKU search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ProductListResponse
// @Router /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Details(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetDetails(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create accepts either JSON or multipart form data; the multipart variant
// may carry an "image" file alongside the product fields.
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid form data: "+err.Error()))
			return
		}
		if !runValidation(c, &req) {
			return
		}
	} else if !bindAndValidate(c, &req) {
		return
	}

	image, _ := c.FormFile("image")
	resp, err := h.svc.Create(c.Request.Context(), req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid form data: "+err.Error()))
			return
		}
		if !runValidation(c, &req) {
			return
		}
	} else if !bindAndValidate(c, &req) {
		return
	}

	image, _ := c.FormFile("image")
	resp, err := h.svc.Update(c.Request.Context(), id, req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "product deleted"})
}

func (h *ProductsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock godoc
// @Summary Apply a signed stock adjustment with an audit reason
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body dto.AdjustStockRequest true "Adjustment"
// @Success 200 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/products/{id}/stock [patch]
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, claims.UserUUID(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Search(c *gin.Context) {
	resp, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Categories(c *gin.Context) {
	resp, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
