package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocker/backend/internal/application/purchase"
)

// PurchaseRequestHandler handles purchase request endpoints
type PurchaseRequestHandler struct {
	BaseHandler
	requestService *purchase.PurchaseRequestService
}

// NewPurchaseRequestHandler creates a new PurchaseRequestHandler
func NewPurchaseRequestHandler(requestService *purchase.PurchaseRequestService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService}
}

// Create opens a new draft purchase request
func (h *PurchaseRequestHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req purchase.CreatePurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// GetByID returns a purchase request with its line items
func (h *PurchaseRequestHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// List returns purchase requests with filtering and pagination
func (h *PurchaseRequestHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter purchase.PurchaseRequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.requestService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem adds a line item to a draft request
func (h *PurchaseRequestHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	var req purchase.AddPurchaseRequestItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.AddItem(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// UpdateItem changes the quantity or cost of a line item
func (h *PurchaseRequestHandler) UpdateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req purchase.UpdatePurchaseRequestItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.UpdateItem(c.Request.Context(), tenantID, requestID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// RemoveItem removes a line item from a draft request
func (h *PurchaseRequestHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	request, err := h.requestService.RemoveItem(c.Request.Context(), tenantID, requestID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Submit sends a draft request for approval
func (h *PurchaseRequestHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	request, err := h.requestService.Submit(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Approve approves a submitted request
func (h *PurchaseRequestHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	var req purchase.ApprovePurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.Approve(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Reject rejects a submitted request with a reason
func (h *PurchaseRequestHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	var req purchase.RejectPurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.Reject(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Cancel cancels a request before approval
func (h *PurchaseRequestHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	var req purchase.CancelPurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Delete removes a draft or cancelled request
func (h *PurchaseRequestHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase request ID")
		return
	}

	if err := h.requestService.Delete(c.Request.Context(), tenantID, requestID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
