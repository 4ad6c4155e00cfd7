package finance

import (
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

const (
	AggregateTypeBaBsForm = "BaBsForm"

	EventTypeBaBsFormCreated = "babs_form.created"
	EventTypeBaBsFormFiled   = "babs_form.filed"
)

// BaBsFormCreatedEvent is raised when a new form draft is created
type BaBsFormCreatedEvent struct {
	shared.BaseDomainEvent
	FormNumber  string       `json:"form_number"`
	FormType    BaBsFormType `json:"form_type"`
	PeriodYear  int          `json:"period_year"`
	PeriodMonth int          `json:"period_month"`
}

// NewBaBsFormCreatedEvent creates a new BaBsFormCreatedEvent
func NewBaBsFormCreatedEvent(form *BaBsForm) *BaBsFormCreatedEvent {
	return &BaBsFormCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBaBsFormCreated, AggregateTypeBaBsForm, form.ID, form.TenantID),
		FormNumber:      form.FormNumber,
		FormType:        form.FormType,
		PeriodYear:      form.PeriodYear,
		PeriodMonth:     form.PeriodMonth,
	}
}

// BaBsFormFiledEvent is raised when a form is submitted to GIB
type BaBsFormFiledEvent struct {
	shared.BaseDomainEvent
	FormNumber       string          `json:"form_number"`
	GibSubmissionRef string          `json:"gib_submission_ref"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewBaBsFormFiledEvent creates a new BaBsFormFiledEvent
func NewBaBsFormFiledEvent(form *BaBsForm) *BaBsFormFiledEvent {
	return &BaBsFormFiledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBaBsFormFiled, AggregateTypeBaBsForm, form.ID, form.TenantID),
		FormNumber:       form.FormNumber,
		GibSubmissionRef: form.GibSubmissionRef,
		TotalAmount:      form.TotalAmountIncludingVat,
	}
}
