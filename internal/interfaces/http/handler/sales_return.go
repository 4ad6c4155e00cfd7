package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocker/backend/internal/application/sales"
)

// SalesReturnHandler handles sales return endpoints
type SalesReturnHandler struct {
	BaseHandler
	returnService *sales.SalesReturnService
}

// NewSalesReturnHandler creates a new SalesReturnHandler
func NewSalesReturnHandler(returnService *sales.SalesReturnService) *SalesReturnHandler {
	return &SalesReturnHandler{returnService: returnService}
}

// Create opens a new draft sales return
func (h *SalesReturnHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req sales.CreateSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// GetByID returns a sales return with its lines
func (h *SalesReturnHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// List returns sales returns with filtering and pagination
func (h *SalesReturnHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter sales.SalesReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.returnService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem adds a return line to a draft return
func (h *SalesReturnHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	var req sales.AddSalesReturnItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.AddItem(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// RemoveItem removes a return line from a draft return
func (h *SalesReturnHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	ret, err := h.returnService.RemoveItem(c.Request.Context(), tenantID, returnID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Submit sends a draft return for approval
func (h *SalesReturnHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	ret, err := h.returnService.Submit(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Approve approves a submitted return
func (h *SalesReturnHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	var req sales.ApproveSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Complete records the physical receipt of returned goods
func (h *SalesReturnHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	var req sales.CompleteSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.Complete(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Reject rejects a submitted return with a reason
func (h *SalesReturnHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	var req sales.RejectSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Cancel cancels a return before completion
func (h *SalesReturnHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	var req sales.CancelSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returnService.Cancel(c.Request.Context(), tenantID, returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Delete removes a draft or cancelled return
func (h *SalesReturnHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales return ID")
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), tenantID, returnID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
