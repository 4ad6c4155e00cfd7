package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/sales"
)

// CreateSalesReturnRequest represents a request to open a new sales return draft
type CreateSalesReturnRequest struct {
	CustomerID   uuid.UUID                    `json:"customer_id" binding:"required"`
	CustomerName string                       `json:"customer_name" binding:"required,min=1,max=200"`
	Reason       string                       `json:"reason" binding:"required,min=1,max=500"`
	Items        []CreateSalesReturnItemInput `json:"items"`
}

// CreateSalesReturnItemInput represents an item in the create request
type CreateSalesReturnItemInput struct {
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"max=50"`
	Condition   string          `json:"condition" binding:"max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// AddSalesReturnItemRequest represents a request to add a return line
type AddSalesReturnItemRequest struct {
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"max=50"`
	Condition   string          `json:"condition" binding:"max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// ApproveSalesReturnRequest represents a request to approve a submitted return
type ApproveSalesReturnRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,min=1,max=200"`
}

// CompleteSalesReturnRequest represents a request to record the refund
type CompleteSalesReturnRequest struct {
	RefundRef string `json:"refund_ref" binding:"max=100"`
}

// RejectSalesReturnRequest represents a request to reject a submitted return
type RejectSalesReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelSalesReturnRequest represents a request to cancel a return
type CancelSalesReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SalesReturnListFilter represents filter options for the return list
type SalesReturnListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesReturnItemResponse represents a return line in API responses
type SalesReturnItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Condition    string          `json:"condition,omitempty"`
}

// SalesReturnResponse represents a sales return in API responses
type SalesReturnResponse struct {
	ID             uuid.UUID                 `json:"id"`
	TenantID       uuid.UUID                 `json:"tenant_id"`
	ReturnNumber   string                    `json:"return_number"`
	CustomerID     uuid.UUID                 `json:"customer_id"`
	CustomerName   string                    `json:"customer_name"`
	Reason         string                    `json:"reason"`
	Items          []SalesReturnItemResponse `json:"items"`
	TotalRefund    decimal.Decimal           `json:"total_refund"`
	Status         string                    `json:"status"`
	SubmittedAt    *time.Time                `json:"submitted_at,omitempty"`
	ApprovedBy     string                    `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time                `json:"approved_at,omitempty"`
	RefundIssuedAt *time.Time                `json:"refund_issued_at,omitempty"`
	RefundRef      string                    `json:"refund_ref,omitempty"`
	RejectReason   string                    `json:"reject_reason,omitempty"`
	CancelReason   string                    `json:"cancel_reason,omitempty"`
	Version        int                       `json:"version"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// SalesReturnListItemResponse represents a return in list responses
type SalesReturnListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ReturnNumber string          `json:"return_number"`
	CustomerName string          `json:"customer_name"`
	Reason       string          `json:"reason"`
	ItemCount    int             `json:"item_count"`
	TotalRefund  decimal.Decimal `json:"total_refund"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToSalesReturnResponse converts a domain return to a response DTO
func ToSalesReturnResponse(ret *sales.SalesReturn) SalesReturnResponse {
	items := make([]SalesReturnItemResponse, 0, len(ret.Items))
	for _, item := range ret.Items {
		items = append(items, SalesReturnItemResponse{
			ID:           item.ID,
			ProductName:  item.ProductName,
			ProductCode:  item.ProductCode,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			RefundAmount: item.RefundAmount,
			Condition:    item.Condition,
		})
	}

	return SalesReturnResponse{
		ID:             ret.ID,
		TenantID:       ret.TenantID,
		ReturnNumber:   ret.ReturnNumber,
		CustomerID:     ret.CustomerID,
		CustomerName:   ret.CustomerName,
		Reason:         ret.Reason,
		Items:          items,
		TotalRefund:    ret.TotalRefund,
		Status:         string(ret.Status),
		SubmittedAt:    ret.SubmittedAt,
		ApprovedBy:     ret.ApprovedBy,
		ApprovedAt:     ret.ApprovedAt,
		RefundIssuedAt: ret.RefundIssuedAt,
		RefundRef:      ret.RefundRef,
		RejectReason:   ret.RejectReason,
		CancelReason:   ret.CancelReason,
		Version:        ret.Version,
		CreatedAt:      ret.CreatedAt,
		UpdatedAt:      ret.UpdatedAt,
	}
}

// ToSalesReturnListItemResponses converts domain returns to list item DTOs
func ToSalesReturnListItemResponses(returns []*sales.SalesReturn) []SalesReturnListItemResponse {
	responses := make([]SalesReturnListItemResponse, 0, len(returns))
	for _, ret := range returns {
		responses = append(responses, SalesReturnListItemResponse{
			ID:           ret.ID,
			ReturnNumber: ret.ReturnNumber,
			CustomerName: ret.CustomerName,
			Reason:       ret.Reason,
			ItemCount:    len(ret.Items),
			TotalRefund:  ret.TotalRefund,
			Status:       string(ret.Status),
			CreatedAt:    ret.CreatedAt,
		})
	}
	return responses
}
