package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocker/backend/internal/application/inventory"
)

// ProductVariantHandler handles product variant endpoints
type ProductVariantHandler struct {
	BaseHandler
	variantService *inventory.ProductVariantService
}

// NewProductVariantHandler creates a new ProductVariantHandler
func NewProductVariantHandler(variantService *inventory.ProductVariantService) *ProductVariantHandler {
	return &ProductVariantHandler{variantService: variantService}
}

// Create registers a new product variant
func (h *ProductVariantHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req inventory.CreateProductVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variant, err := h.variantService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, variant)
}

// GetByID returns a variant by its ID
func (h *ProductVariantHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	variant, err := h.variantService.GetByID(c.Request.Context(), tenantID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// List returns variants with filtering and pagination
func (h *ProductVariantHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter inventory.ProductVariantListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.variantService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a variant's attributes and price
func (h *ProductVariantHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req inventory.UpdateProductVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variant, err := h.variantService.Update(c.Request.Context(), tenantID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// ReceiveStock increases the variant's stock quantity
func (h *ProductVariantHandler) ReceiveStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req inventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variant, err := h.variantService.ReceiveStock(c.Request.Context(), tenantID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// IssueStock decreases the variant's stock quantity
func (h *ProductVariantHandler) IssueStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req inventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	variant, err := h.variantService.IssueStock(c.Request.Context(), tenantID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// Delete removes an inactive variant
func (h *ProductVariantHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	if err := h.variantService.Delete(c.Request.Context(), tenantID, variantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
