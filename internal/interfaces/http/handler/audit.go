package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocker/backend/internal/application/audit"
)

// SecurityLogHandler handles security audit log endpoints
type SecurityLogHandler struct {
	BaseHandler
	logService *audit.SecurityLogService
}

// NewSecurityLogHandler creates a new SecurityLogHandler
func NewSecurityLogHandler(logService *audit.SecurityLogService) *SecurityLogHandler {
	return &SecurityLogHandler{logService: logService}
}

// Record appends an audit log entry for the current tenant
func (h *SecurityLogHandler) Record(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req audit.RecordSecurityEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.logService.Record(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// List returns audit log entries for the current tenant
func (h *SecurityLogHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter audit.SecurityLogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.logService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Statistics aggregates audit log totals for the current tenant
func (h *SecurityLogHandler) Statistics(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var filter audit.SecurityLogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	stats, err := h.logService.Statistics(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
