package purchase

import (
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

const (
	AggregateTypePurchaseRequest = "PurchaseRequest"

	EventTypePurchaseRequestCreated   = "purchase_request.created"
	EventTypePurchaseRequestSubmitted = "purchase_request.submitted"
	EventTypePurchaseRequestApproved  = "purchase_request.approved"
)

// PurchaseRequestCreatedEvent is raised when a new draft request is created
type PurchaseRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string `json:"request_number"`
	Requester     string `json:"requester"`
	Department    string `json:"department"`
}

// NewPurchaseRequestCreatedEvent creates a new PurchaseRequestCreatedEvent
func NewPurchaseRequestCreatedEvent(r *PurchaseRequest) *PurchaseRequestCreatedEvent {
	return &PurchaseRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestCreated, AggregateTypePurchaseRequest, r.ID, r.TenantID),
		RequestNumber:   r.RequestNumber,
		Requester:       r.Requester,
		Department:      r.Department,
	}
}

// PurchaseRequestSubmittedEvent is raised when a request enters the approval queue
type PurchaseRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestNumber  string          `json:"request_number"`
	UrgencyScore   int             `json:"urgency_score"`
	UrgencyLevel   UrgencyLevel    `json:"urgency_level"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
}

// NewPurchaseRequestSubmittedEvent creates a new PurchaseRequestSubmittedEvent
func NewPurchaseRequestSubmittedEvent(r *PurchaseRequest) *PurchaseRequestSubmittedEvent {
	return &PurchaseRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestSubmitted, AggregateTypePurchaseRequest, r.ID, r.TenantID),
		RequestNumber:   r.RequestNumber,
		UrgencyScore:    r.UrgencyScore,
		UrgencyLevel:    r.UrgencyLevel(),
		EstimatedTotal:  r.EstimatedTotal,
	}
}

// PurchaseRequestApprovedEvent is raised when a request is approved
type PurchaseRequestApprovedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string `json:"request_number"`
	ApprovedBy    string `json:"approved_by"`
}

// NewPurchaseRequestApprovedEvent creates a new PurchaseRequestApprovedEvent
func NewPurchaseRequestApprovedEvent(r *PurchaseRequest) *PurchaseRequestApprovedEvent {
	return &PurchaseRequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestApproved, AggregateTypePurchaseRequest, r.ID, r.TenantID),
		RequestNumber:   r.RequestNumber,
		ApprovedBy:      r.ApprovedBy,
	}
}
