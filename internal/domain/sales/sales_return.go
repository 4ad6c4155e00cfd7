package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

// SalesReturnStatus represents the status of a sales return
type SalesReturnStatus string

const (
	SalesReturnStatusDraft     SalesReturnStatus = "DRAFT"
	SalesReturnStatusSubmitted SalesReturnStatus = "SUBMITTED" // Waiting for approval
	SalesReturnStatusApproved  SalesReturnStatus = "APPROVED"  // Approved, refund pending
	SalesReturnStatusCompleted SalesReturnStatus = "COMPLETED" // Refund issued
	SalesReturnStatusRejected  SalesReturnStatus = "REJECTED"
	SalesReturnStatusCancelled SalesReturnStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SalesReturnStatus
func (s SalesReturnStatus) IsValid() bool {
	switch s {
	case SalesReturnStatusDraft, SalesReturnStatusSubmitted, SalesReturnStatusApproved,
		SalesReturnStatusCompleted, SalesReturnStatusRejected, SalesReturnStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesReturnStatus
func (s SalesReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesReturnStatus) CanTransitionTo(target SalesReturnStatus) bool {
	switch s {
	case SalesReturnStatusDraft:
		return target == SalesReturnStatusSubmitted || target == SalesReturnStatusCancelled
	case SalesReturnStatusSubmitted:
		return target == SalesReturnStatusApproved || target == SalesReturnStatusRejected ||
			target == SalesReturnStatusCancelled
	case SalesReturnStatusApproved:
		return target == SalesReturnStatusCompleted
	case SalesReturnStatusCompleted, SalesReturnStatusRejected, SalesReturnStatusCancelled:
		return false // Terminal states
	}
	return false
}

// SalesReturnItem represents a line item in a sales return
type SalesReturnItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	ProductCode  string          `gorm:"type:varchar(50)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Condition    string          `gorm:"type:varchar(50)"` // e.g. "damaged", "defective", "unwanted"
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesReturnItem) TableName() string {
	return "sales_return_items"
}

// NewSalesReturnItem creates a new sales return line
func NewSalesReturnItem(returnID uuid.UUID, productName, productCode, condition string, quantity, unitPrice decimal.Decimal) (*SalesReturnItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SalesReturnItem{
		ID:           uuid.New(),
		ReturnID:     returnID,
		ProductName:  productName,
		ProductCode:  productCode,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		RefundAmount: quantity.Mul(unitPrice).Round(2),
		Condition:    condition,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SalesReturn is the aggregate root for a customer return. Items are
// mutable only in Draft; a completed return records when the refund
// was issued.
type SalesReturn struct {
	shared.TenantAggregateRoot
	ReturnNumber   string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_return_tenant_number,priority:2"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerName   string            `gorm:"type:varchar(200);not null"`
	Reason         string            `gorm:"type:varchar(500);not null"`
	Items          []SalesReturnItem `gorm:"foreignKey:ReturnID;references:ID"`
	TotalRefund    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Status         SalesReturnStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt    *time.Time
	ApprovedBy     string `gorm:"type:varchar(200)"`
	ApprovedAt     *time.Time
	RefundIssuedAt *time.Time
	RefundRef      string `gorm:"type:varchar(100)"`
	RejectReason   string `gorm:"type:varchar(500)"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesReturn) TableName() string {
	return "sales_returns"
}

// NewSalesReturn creates a new draft sales return
func NewSalesReturn(tenantID uuid.UUID, returnNumber string, customerID uuid.UUID, customerName, reason string) (*SalesReturn, error) {
	if strings.TrimSpace(returnNumber) == "" {
		return nil, shared.NewValidationError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewValidationError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewValidationError("REASON_REQUIRED", "Return reason cannot be empty")
	}

	ret := &SalesReturn{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Reason:              reason,
		Items:               make([]SalesReturnItem, 0),
		TotalRefund:         decimal.Zero,
		Status:              SalesReturnStatusDraft,
	}

	ret.AddDomainEvent(NewSalesReturnCreatedEvent(ret))

	return ret, nil
}

// AddItem adds a return line. Only allowed in DRAFT status.
func (r *SalesReturn) AddItem(productName, productCode, condition string, quantity, unitPrice decimal.Decimal) (*SalesReturnItem, error) {
	if r.Status != SalesReturnStatusDraft {
		return nil, shared.NewConflictError("INVALID_STATE", "Cannot add items to a non-draft return")
	}

	item, err := NewSalesReturnItem(r.ID, productName, productCode, condition, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.recalculateTotal()
	r.Touch()
	r.IncrementVersion()

	return item, nil
}

// RemoveItem removes a return line. Only allowed in DRAFT status.
func (r *SalesReturn) RemoveItem(itemID uuid.UUID) error {
	if r.Status != SalesReturnStatusDraft {
		return shared.NewConflictError("INVALID_STATE", "Cannot remove items from a non-draft return")
	}

	for idx, item := range r.Items {
		if item.ID == itemID {
			r.Items = append(r.Items[:idx], r.Items[idx+1:]...)
			r.recalculateTotal()
			r.Touch()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Return item not found")
}

func (r *SalesReturn) recalculateTotal() {
	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].RefundAmount)
	}
	r.TotalRefund = total
}

// Submit sends the return for approval. DRAFT -> SUBMITTED.
// At least one item is required.
func (r *SalesReturn) Submit() error {
	if !r.Status.CanTransitionTo(SalesReturnStatusSubmitted) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot submit return in %s status", r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot submit a return without items")
	}

	now := time.Now()
	r.Status = SalesReturnStatusSubmitted
	r.SubmittedAt = &now
	r.Touch()
	r.IncrementVersion()

	return nil
}

// Approve approves a submitted return. SUBMITTED -> APPROVED.
func (r *SalesReturn) Approve(approvedBy string) error {
	if !r.Status.CanTransitionTo(SalesReturnStatusApproved) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	if strings.TrimSpace(approvedBy) == "" {
		return shared.NewValidationError("APPROVER_REQUIRED", "Approver is required")
	}

	now := time.Now()
	r.Status = SalesReturnStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovedAt = &now
	r.Touch()
	r.IncrementVersion()

	return nil
}

// Complete records the refund and closes the return. APPROVED -> COMPLETED.
func (r *SalesReturn) Complete(refundRef string) error {
	if !r.Status.CanTransitionTo(SalesReturnStatusCompleted) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot complete return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = SalesReturnStatusCompleted
	r.RefundIssuedAt = &now
	r.RefundRef = refundRef
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewSalesReturnCompletedEvent(r))

	return nil
}

// Reject rejects a submitted return. SUBMITTED -> REJECTED. Requires a reason.
func (r *SalesReturn) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !r.Status.CanTransitionTo(SalesReturnStatusRejected) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot reject return in %s status", r.Status))
	}

	r.Status = SalesReturnStatusRejected
	r.RejectReason = reason
	r.Touch()
	r.IncrementVersion()

	return nil
}

// Cancel cancels the return. Allowed from DRAFT and SUBMITTED. Requires a reason.
func (r *SalesReturn) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !r.Status.CanTransitionTo(SalesReturnStatusCancelled) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = SalesReturnStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.Touch()
	r.IncrementVersion()

	return nil
}
