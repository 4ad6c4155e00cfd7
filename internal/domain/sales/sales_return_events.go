package sales

import (
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

const (
	AggregateTypeSalesReturn = "SalesReturn"

	EventTypeSalesReturnCreated   = "sales_return.created"
	EventTypeSalesReturnCompleted = "sales_return.completed"
)

// SalesReturnCreatedEvent is raised when a new draft return is created
type SalesReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	CustomerName string `json:"customer_name"`
	Reason       string `json:"reason"`
}

// NewSalesReturnCreatedEvent creates a new SalesReturnCreatedEvent
func NewSalesReturnCreatedEvent(r *SalesReturn) *SalesReturnCreatedEvent {
	return &SalesReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnCreated, AggregateTypeSalesReturn, r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		CustomerName:    r.CustomerName,
		Reason:          r.Reason,
	}
}

// SalesReturnCompletedEvent is raised when the refund is issued
type SalesReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	TotalRefund  decimal.Decimal `json:"total_refund"`
	RefundRef    string          `json:"refund_ref"`
}

// NewSalesReturnCompletedEvent creates a new SalesReturnCompletedEvent
func NewSalesReturnCompletedEvent(r *SalesReturn) *SalesReturnCompletedEvent {
	return &SalesReturnCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesReturnCompleted, AggregateTypeSalesReturn, r.ID, r.TenantID),
		ReturnNumber:    r.ReturnNumber,
		TotalRefund:     r.TotalRefund,
		RefundRef:       r.RefundRef,
	}
}
