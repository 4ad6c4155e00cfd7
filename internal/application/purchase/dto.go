package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/purchase"
)

// CreatePurchaseRequestRequest represents a request to open a new purchase request draft
type CreatePurchaseRequestRequest struct {
	Requester     string                           `json:"requester" binding:"required,min=1,max=200"`
	Department    string                           `json:"department" binding:"required,min=1,max=100"`
	Justification string                           `json:"justification" binding:"max=1000"`
	UrgencyScore  int                              `json:"urgency_score" binding:"min=0,max=100"`
	NeededBy      *time.Time                       `json:"needed_by"`
	Items         []CreatePurchaseRequestItemInput `json:"items"`
}

// CreatePurchaseRequestItemInput represents an item in the create request
type CreatePurchaseRequestItemInput struct {
	ProductName       string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode       string          `json:"product_code" binding:"max=50"`
	Unit              string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	EstimatedUnitCost decimal.Decimal `json:"estimated_unit_cost" binding:"required"`
}

// AddPurchaseRequestItemRequest represents a request to add a line item
type AddPurchaseRequestItemRequest struct {
	ProductName       string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode       string          `json:"product_code" binding:"max=50"`
	Unit              string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	EstimatedUnitCost decimal.Decimal `json:"estimated_unit_cost" binding:"required"`
}

// UpdatePurchaseRequestItemRequest represents a request to change an item's quantity
type UpdatePurchaseRequestItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ApprovePurchaseRequestRequest represents a request to approve a pending request
type ApprovePurchaseRequestRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,min=1,max=200"`
}

// RejectPurchaseRequestRequest represents a request to reject a pending request
type RejectPurchaseRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelPurchaseRequestRequest represents a request to cancel a request
type CancelPurchaseRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseRequestListFilter represents filter options for the request list
type PurchaseRequestListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Department string `form:"department"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseRequestItemResponse represents a line item in API responses
type PurchaseRequestItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	EstimatedUnitCost decimal.Decimal `json:"estimated_unit_cost"`
	EstimatedTotal    decimal.Decimal `json:"estimated_total"`
}

// PurchaseRequestResponse represents a purchase request in API responses
type PurchaseRequestResponse struct {
	ID             uuid.UUID                     `json:"id"`
	TenantID       uuid.UUID                     `json:"tenant_id"`
	RequestNumber  string                        `json:"request_number"`
	Requester      string                        `json:"requester"`
	Department     string                        `json:"department"`
	Justification  string                        `json:"justification,omitempty"`
	UrgencyScore   int                           `json:"urgency_score"`
	UrgencyLevel   string                        `json:"urgency_level"`
	NeededBy       *time.Time                    `json:"needed_by,omitempty"`
	Items          []PurchaseRequestItemResponse `json:"items"`
	EstimatedTotal decimal.Decimal               `json:"estimated_total"`
	Status         string                        `json:"status"`
	SubmittedAt    *time.Time                    `json:"submitted_at,omitempty"`
	ApprovedBy     string                        `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time                    `json:"approved_at,omitempty"`
	RejectReason   string                        `json:"reject_reason,omitempty"`
	CancelReason   string                        `json:"cancel_reason,omitempty"`
	Version        int                           `json:"version"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// PurchaseRequestListItemResponse represents a request in list responses
type PurchaseRequestListItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	RequestNumber  string          `json:"request_number"`
	Requester      string          `json:"requester"`
	Department     string          `json:"department"`
	UrgencyScore   int             `json:"urgency_score"`
	UrgencyLevel   string          `json:"urgency_level"`
	NeededBy       *time.Time      `json:"needed_by,omitempty"`
	ItemCount      int             `json:"item_count"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToPurchaseRequestResponse converts a domain request to a response DTO
func ToPurchaseRequestResponse(request *purchase.PurchaseRequest) PurchaseRequestResponse {
	items := make([]PurchaseRequestItemResponse, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, PurchaseRequestItemResponse{
			ID:                item.ID,
			ProductName:       item.ProductName,
			ProductCode:       item.ProductCode,
			Quantity:          item.Quantity,
			Unit:              item.Unit,
			EstimatedUnitCost: item.EstimatedUnitCost,
			EstimatedTotal:    item.EstimatedTotal,
		})
	}

	return PurchaseRequestResponse{
		ID:             request.ID,
		TenantID:       request.TenantID,
		RequestNumber:  request.RequestNumber,
		Requester:      request.Requester,
		Department:     request.Department,
		Justification:  request.Justification,
		UrgencyScore:   request.UrgencyScore,
		UrgencyLevel:   string(request.UrgencyLevel()),
		NeededBy:       request.NeededBy,
		Items:          items,
		EstimatedTotal: request.EstimatedTotal,
		Status:         string(request.Status),
		SubmittedAt:    request.SubmittedAt,
		ApprovedBy:     request.ApprovedBy,
		ApprovedAt:     request.ApprovedAt,
		RejectReason:   request.RejectReason,
		CancelReason:   request.CancelReason,
		Version:        request.Version,
		CreatedAt:      request.CreatedAt,
		UpdatedAt:      request.UpdatedAt,
	}
}

// ToPurchaseRequestListItemResponses converts domain requests to list item DTOs
func ToPurchaseRequestListItemResponses(requests []*purchase.PurchaseRequest) []PurchaseRequestListItemResponse {
	responses := make([]PurchaseRequestListItemResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, PurchaseRequestListItemResponse{
			ID:             request.ID,
			RequestNumber:  request.RequestNumber,
			Requester:      request.Requester,
			Department:     request.Department,
			UrgencyScore:   request.UrgencyScore,
			UrgencyLevel:   string(request.UrgencyLevel()),
			NeededBy:       request.NeededBy,
			ItemCount:      len(request.Items),
			EstimatedTotal: request.EstimatedTotal,
			Status:         string(request.Status),
			CreatedAt:      request.CreatedAt,
		})
	}
	return responses
}
