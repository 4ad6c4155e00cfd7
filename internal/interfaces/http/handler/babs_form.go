package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocker/backend/internal/application/finance"
)

// BaBsFormHandler handles Ba/Bs reconciliation form endpoints
type BaBsFormHandler struct {
	BaseHandler
	formService *finance.BaBsFormService
}

// NewBaBsFormHandler creates a new BaBsFormHandler
func NewBaBsFormHandler(formService *finance.BaBsFormService) *BaBsFormHandler {
	return &BaBsFormHandler{formService: formService}
}

// Create opens a new Ba/Bs form for a reporting period
func (h *BaBsFormHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req finance.CreateBaBsFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, form)
}

// GetByID returns a form with its counterparty lines
func (h *BaBsFormHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	form, err := h.formService.GetByID(c.Request.Context(), tenantID, formID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// List returns forms with filtering and pagination
func (h *BaBsFormHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter finance.BaBsFormListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.formService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListOverdue returns unfiled forms whose filing deadline has passed
func (h *BaBsFormHandler) ListOverdue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	forms, err := h.formService.ListOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, forms)
}

// AddItem adds a counterparty line to a draft form
func (h *BaBsFormHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.AddBaBsFormItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.AddItem(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// RemoveItem removes a counterparty line from a draft form
func (h *BaBsFormHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	form, err := h.formService.RemoveItem(c.Request.Context(), tenantID, formID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// MarkReady moves a draft form to the ready state
func (h *BaBsFormHandler) MarkReady(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.MarkBaBsFormReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.MarkReady(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// Approve approves a ready form for filing
func (h *BaBsFormHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.ApproveBaBsFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.Approve(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// File submits an approved form to the revenue administration
func (h *BaBsFormHandler) File(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.FileBaBsFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.File(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// RecordGibResult records the administration's accept or reject verdict
func (h *BaBsFormHandler) RecordGibResult(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.RecordGibResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.RecordGibResult(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// Cancel cancels an unfiled form
func (h *BaBsFormHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.CancelBaBsFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.Cancel(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, form)
}

// CreateCorrection opens a correction form for a filed original
func (h *BaBsFormHandler) CreateCorrection(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	var req finance.CreateBaBsCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := h.formService.CreateCorrection(c.Request.Context(), tenantID, formID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, form)
}

// Delete removes a draft or cancelled form
func (h *BaBsFormHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid form ID")
		return
	}

	if err := h.formService.Delete(c.Request.Context(), tenantID, formID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
