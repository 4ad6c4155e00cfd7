package purchase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

// PurchaseRequestStatus represents the status of a purchase request
type PurchaseRequestStatus string

const (
	PurchaseRequestStatusDraft     PurchaseRequestStatus = "DRAFT"
	PurchaseRequestStatusPending   PurchaseRequestStatus = "PENDING" // Waiting for approval
	PurchaseRequestStatusApproved  PurchaseRequestStatus = "APPROVED"
	PurchaseRequestStatusRejected  PurchaseRequestStatus = "REJECTED"
	PurchaseRequestStatusCancelled PurchaseRequestStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseRequestStatus
func (s PurchaseRequestStatus) IsValid() bool {
	switch s {
	case PurchaseRequestStatusDraft, PurchaseRequestStatusPending, PurchaseRequestStatusApproved,
		PurchaseRequestStatusRejected, PurchaseRequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseRequestStatus
func (s PurchaseRequestStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseRequestStatus) CanTransitionTo(target PurchaseRequestStatus) bool {
	switch s {
	case PurchaseRequestStatusDraft:
		return target == PurchaseRequestStatusPending || target == PurchaseRequestStatusCancelled
	case PurchaseRequestStatusPending:
		return target == PurchaseRequestStatusApproved || target == PurchaseRequestStatusRejected ||
			target == PurchaseRequestStatusCancelled
	case PurchaseRequestStatusApproved, PurchaseRequestStatusRejected, PurchaseRequestStatusCancelled:
		return false // Terminal states
	}
	return false
}

// UrgencyLevel buckets the urgency score for display and routing. It is
// the shared score bucket, so an urgency of 75 carries the same label as
// a risk score of 75.
type UrgencyLevel = shared.ScoreBucket

const (
	UrgencyLevelCritical = shared.ScoreBucketCritical
	UrgencyLevelHigh     = shared.ScoreBucketHigh
	UrgencyLevelMedium   = shared.ScoreBucketMedium
	UrgencyLevelLow      = shared.ScoreBucketLow
)

// UrgencyLevelForScore maps a 0-100 urgency score onto its bucket
func UrgencyLevelForScore(score int) UrgencyLevel {
	return shared.BucketForScore(score)
}

// PurchaseRequestItem represents a line item in a purchase request
type PurchaseRequestItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	RequestID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	ProductCode       string          `gorm:"type:varchar(50)"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	EstimatedUnitCost decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EstimatedTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notes             string          `gorm:"type:varchar(500)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseRequestItem) TableName() string {
	return "purchase_request_items"
}

// NewPurchaseRequestItem creates a new purchase request line
func NewPurchaseRequestItem(requestID uuid.UUID, productName, productCode, unit string, quantity, estimatedUnitCost decimal.Decimal) (*PurchaseRequestItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewValidationError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if estimatedUnitCost.IsNegative() {
		return nil, shared.NewValidationError("INVALID_COST", "Estimated unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseRequestItem{
		ID:                uuid.New(),
		RequestID:         requestID,
		ProductName:       productName,
		ProductCode:       productCode,
		Quantity:          quantity,
		Unit:              unit,
		EstimatedUnitCost: estimatedUnitCost,
		EstimatedTotal:    quantity.Mul(estimatedUnitCost).Round(2),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// PurchaseRequest is the aggregate root for an internal purchase request.
// Items are mutable only in Draft; Submit moves the request into the
// approval queue.
type PurchaseRequest struct {
	shared.TenantAggregateRoot
	RequestNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_request_tenant_number,priority:2"`
	Requester      string                `gorm:"type:varchar(200);not null"`
	Department     string                `gorm:"type:varchar(100);not null"`
	Justification  string                `gorm:"type:varchar(1000)"`
	UrgencyScore   int                   `gorm:"not null;default:0"`
	NeededBy       *time.Time            `gorm:"index"`
	Items          []PurchaseRequestItem `gorm:"foreignKey:RequestID;references:ID"`
	EstimatedTotal decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status         PurchaseRequestStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt    *time.Time
	ApprovedBy     string `gorm:"type:varchar(200)"`
	ApprovedAt     *time.Time
	RejectReason   string `gorm:"type:varchar(500)"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// NewPurchaseRequest creates a new draft purchase request
func NewPurchaseRequest(tenantID uuid.UUID, requestNumber, requester, department string, urgencyScore int, neededBy *time.Time) (*PurchaseRequest, error) {
	if strings.TrimSpace(requestNumber) == "" {
		return nil, shared.NewValidationError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if strings.TrimSpace(requester) == "" {
		return nil, shared.NewValidationError("INVALID_REQUESTER", "Requester cannot be empty")
	}
	if strings.TrimSpace(department) == "" {
		return nil, shared.NewValidationError("INVALID_DEPARTMENT", "Department cannot be empty")
	}
	if urgencyScore < 0 || urgencyScore > 100 {
		return nil, shared.NewValidationError("INVALID_URGENCY", "Urgency score must be between 0 and 100")
	}

	request := &PurchaseRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestNumber:       requestNumber,
		Requester:           requester,
		Department:          department,
		UrgencyScore:        urgencyScore,
		NeededBy:            neededBy,
		Items:               make([]PurchaseRequestItem, 0),
		EstimatedTotal:      decimal.Zero,
		Status:              PurchaseRequestStatusDraft,
	}

	request.AddDomainEvent(NewPurchaseRequestCreatedEvent(request))

	return request, nil
}

// UrgencyLevel returns the urgency bucket for the request's score
func (r *PurchaseRequest) UrgencyLevel() UrgencyLevel {
	return UrgencyLevelForScore(r.UrgencyScore)
}

// AddItem adds a line item. Only allowed in DRAFT status.
func (r *PurchaseRequest) AddItem(productName, productCode, unit string, quantity, estimatedUnitCost decimal.Decimal) (*PurchaseRequestItem, error) {
	if r.Status != PurchaseRequestStatusDraft {
		return nil, shared.NewConflictError("INVALID_STATE", "Cannot add items to a non-draft request")
	}

	item, err := NewPurchaseRequestItem(r.ID, productName, productCode, unit, quantity, estimatedUnitCost)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.recalculateTotal()
	r.Touch()
	r.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line item. Only allowed in DRAFT status.
func (r *PurchaseRequest) RemoveItem(itemID uuid.UUID) error {
	if r.Status != PurchaseRequestStatusDraft {
		return shared.NewConflictError("INVALID_STATE", "Cannot remove items from a non-draft request")
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

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Request item not found")
}

// UpdateItemQuantity changes the quantity of a line item. Only allowed in DRAFT status.
func (r *PurchaseRequest) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if r.Status != PurchaseRequestStatusDraft {
		return shared.NewConflictError("INVALID_STATE", "Cannot modify items on a non-draft request")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			r.Items[idx].Quantity = quantity
			r.Items[idx].EstimatedTotal = quantity.Mul(r.Items[idx].EstimatedUnitCost).Round(2)
			r.Items[idx].UpdatedAt = time.Now()
			r.recalculateTotal()
			r.Touch()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Request item not found")
}

func (r *PurchaseRequest) recalculateTotal() {
	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].EstimatedTotal)
	}
	r.EstimatedTotal = total
}

// Submit sends the request for approval. DRAFT -> PENDING.
// At least one item is required.
func (r *PurchaseRequest) Submit() error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusPending) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot submit request in %s status", r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot submit a request without items")
	}

	now := time.Now()
	r.Status = PurchaseRequestStatusPending
	r.SubmittedAt = &now
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewPurchaseRequestSubmittedEvent(r))

	return nil
}

// Approve approves a pending request. PENDING -> APPROVED.
func (r *PurchaseRequest) Approve(approvedBy string) error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusApproved) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot approve request in %s status", r.Status))
	}
	if strings.TrimSpace(approvedBy) == "" {
		return shared.NewValidationError("APPROVER_REQUIRED", "Approver is required")
	}

	now := time.Now()
	r.Status = PurchaseRequestStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovedAt = &now
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewPurchaseRequestApprovedEvent(r))

	return nil
}

// Reject rejects a pending request. PENDING -> REJECTED. Requires a reason.
func (r *PurchaseRequest) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !r.Status.CanTransitionTo(PurchaseRequestStatusRejected) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot reject request in %s status", r.Status))
	}

	r.Status = PurchaseRequestStatusRejected
	r.RejectReason = reason
	r.Touch()
	r.IncrementVersion()

	return nil
}

// Cancel cancels the request. Allowed from DRAFT and PENDING. Requires a reason.
func (r *PurchaseRequest) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !r.Status.CanTransitionTo(PurchaseRequestStatusCancelled) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel request in %s status", r.Status))
	}

	now := time.Now()
	r.Status = PurchaseRequestStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.Touch()
	r.IncrementVersion()

	return nil
}

// IsDeletable reports whether the request may be hard-deleted.
// Only draft and cancelled requests can be removed.
func (r *PurchaseRequest) IsDeletable() bool {
	return r.Status == PurchaseRequestStatusDraft || r.Status == PurchaseRequestStatusCancelled
}
