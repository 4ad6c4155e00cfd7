package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/directory"
)

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required,min=3,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
}

// UpdateTenantRequest represents a request to update tenant details
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
}

// SuspendTenantRequest represents a request to suspend a tenant
type SuspendTenantRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TerminateTenantRequest represents a request to terminate a tenant
type TerminateTenantRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TenantListFilter represents filter options for the tenant list
type TenantListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	ContactEmail    string     `json:"contact_email"`
	Status          string     `json:"status"`
	SuspendedAt     *time.Time `json:"suspended_at,omitempty"`
	SuspendReason   string     `json:"suspend_reason,omitempty"`
	TerminatedAt    *time.Time `json:"terminated_at,omitempty"`
	TerminateReason string     `json:"terminate_reason,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToTenantResponse converts a domain tenant to a response DTO
func ToTenantResponse(tenant *directory.Tenant) TenantResponse {
	return TenantResponse{
		ID:              tenant.ID,
		Code:            tenant.Code,
		Name:            tenant.Name,
		ContactEmail:    tenant.ContactEmail,
		Status:          string(tenant.Status),
		SuspendedAt:     tenant.SuspendedAt,
		SuspendReason:   tenant.SuspendReason,
		TerminatedAt:    tenant.TerminatedAt,
		TerminateReason: tenant.TerminateReason,
		Version:         tenant.Version,
		CreatedAt:       tenant.CreatedAt,
		UpdatedAt:       tenant.UpdatedAt,
	}
}

// ToTenantResponses converts domain tenants to response DTOs
func ToTenantResponses(tenants []*directory.Tenant) []TenantResponse {
	responses := make([]TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		responses = append(responses, ToTenantResponse(tenant))
	}
	return responses
}
