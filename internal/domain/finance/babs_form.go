package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/shared"
)

// BaBsFormType distinguishes the two GIB notification forms:
// Ba covers purchases, Bs covers sales.
type BaBsFormType string

const (
	BaBsFormTypeBa BaBsFormType = "BA"
	BaBsFormTypeBs BaBsFormType = "BS"
)

// IsValid checks if the form type is valid
func (t BaBsFormType) IsValid() bool {
	return t == BaBsFormTypeBa || t == BaBsFormTypeBs
}

// BaBsFormStatus represents the filing lifecycle of a Ba-Bs form
type BaBsFormStatus string

const (
	BaBsFormStatusDraft     BaBsFormStatus = "DRAFT"
	BaBsFormStatusReady     BaBsFormStatus = "READY"
	BaBsFormStatusApproved  BaBsFormStatus = "APPROVED"
	BaBsFormStatusFiled     BaBsFormStatus = "FILED"
	BaBsFormStatusAccepted  BaBsFormStatus = "ACCEPTED"
	BaBsFormStatusRejected  BaBsFormStatus = "REJECTED"
	BaBsFormStatusCancelled BaBsFormStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BaBsFormStatus
func (s BaBsFormStatus) IsValid() bool {
	switch s {
	case BaBsFormStatusDraft, BaBsFormStatusReady, BaBsFormStatusApproved,
		BaBsFormStatusFiled, BaBsFormStatusAccepted, BaBsFormStatusRejected,
		BaBsFormStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BaBsFormStatus
func (s BaBsFormStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are forward-only; Accepted, Rejected and Cancelled are terminal.
func (s BaBsFormStatus) CanTransitionTo(target BaBsFormStatus) bool {
	switch s {
	case BaBsFormStatusDraft:
		return target == BaBsFormStatusReady || target == BaBsFormStatusCancelled
	case BaBsFormStatusReady:
		return target == BaBsFormStatusApproved || target == BaBsFormStatusCancelled
	case BaBsFormStatusApproved:
		return target == BaBsFormStatusFiled || target == BaBsFormStatusCancelled
	case BaBsFormStatusFiled:
		return target == BaBsFormStatusAccepted || target == BaBsFormStatusRejected || target == BaBsFormStatusCancelled
	case BaBsFormStatusRejected:
		return target == BaBsFormStatusCancelled
	case BaBsFormStatusAccepted, BaBsFormStatusCancelled:
		return false
	}
	return false
}

// ReportingThreshold is the GIB minimum per counterparty: line items whose
// VAT-exclusive total stays under 5,000 TRY are dropped before filing.
var ReportingThreshold = decimal.NewFromInt(5000)

// BaBsFormItem is one counterparty line on a Ba-Bs form
type BaBsFormItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key"`
	FormID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	SequenceNumber     int             `gorm:"not null;default:0"`
	CounterpartyTaxID  string          `gorm:"type:varchar(11);not null"`
	CounterpartyName   string          `gorm:"type:varchar(200);not null"`
	DocumentCount      int             `gorm:"not null"`
	AmountExcludingVat decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VatAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountIncludingVat decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BaBsFormItem) TableName() string {
	return "babs_form_items"
}

// NewBaBsFormItem creates a new form line for a counterparty
func NewBaBsFormItem(formID uuid.UUID, counterpartyTaxID, counterpartyName string, documentCount int, amountExcludingVat, vatAmount decimal.Decimal) (*BaBsFormItem, error) {
	counterpartyTaxID = strings.TrimSpace(counterpartyTaxID)
	if len(counterpartyTaxID) != 10 && len(counterpartyTaxID) != 11 {
		return nil, shared.NewValidationError("INVALID_TAX_ID", "Counterparty tax ID must be 10 or 11 digits")
	}
	if strings.TrimSpace(counterpartyName) == "" {
		return nil, shared.NewValidationError("INVALID_COUNTERPARTY", "Counterparty name cannot be empty")
	}
	if documentCount <= 0 {
		return nil, shared.NewValidationError("INVALID_DOCUMENT_COUNT", "Document count must be positive")
	}
	if amountExcludingVat.IsNegative() || vatAmount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	now := time.Now()
	return &BaBsFormItem{
		ID:                 uuid.New(),
		FormID:             formID,
		CounterpartyTaxID:  counterpartyTaxID,
		CounterpartyName:   counterpartyName,
		DocumentCount:      documentCount,
		AmountExcludingVat: amountExcludingVat,
		VatAmount:          vatAmount,
		AmountIncludingVat: amountExcludingVat.Add(vatAmount),
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// BelowThreshold reports whether this line is under the GIB reporting minimum
func (i *BaBsFormItem) BelowThreshold() bool {
	return i.AmountExcludingVat.LessThan(ReportingThreshold)
}

// BaBsForm is the aggregate root for the monthly GIB purchase/sales
// notification form. Items are mutable only in Draft; every status change
// goes through one of the transition methods below.
type BaBsForm struct {
	shared.TenantAggregateRoot
	FormNumber              string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_babs_form_tenant_number,priority:2"`
	FormType                BaBsFormType    `gorm:"type:varchar(2);not null"`
	PeriodYear              int             `gorm:"not null"`
	PeriodMonth             int             `gorm:"not null"`
	FilingDeadline          time.Time       `gorm:"not null;index"`
	TaxID                   string          `gorm:"type:varchar(11);not null"`
	CompanyName             string          `gorm:"type:varchar(200);not null"`
	Items                   []BaBsFormItem  `gorm:"foreignKey:FormID;references:ID"`
	TotalRecordCount        int             `gorm:"not null;default:0"`
	TotalAmountExcludingVat decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalVat                decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmountIncludingVat decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status                  BaBsFormStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	IsCorrection            bool            `gorm:"not null;default:false"`
	CorrectedFormID         *uuid.UUID      `gorm:"type:uuid;index"`
	CorrectionSequence      int             `gorm:"not null;default:0"`
	CorrectionReason        string          `gorm:"type:varchar(500)"`
	PreparedBy              string          `gorm:"type:varchar(200)"`
	PreparedAt              *time.Time
	ApprovedBy              string `gorm:"type:varchar(200)"`
	ApprovedAt              *time.Time
	FiledAt                 *time.Time
	GibSubmissionRef        string `gorm:"type:varchar(100)"`
	GibApprovalNumber       string `gorm:"type:varchar(100)"`
	RejectReason            string `gorm:"type:varchar(500)"`
	CancelledAt             *time.Time
	CancelReason            string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (BaBsForm) TableName() string {
	return "babs_forms"
}

// NewBaBsForm creates a new draft form for the given period. The filing
// deadline is the end of the last day of the following month.
func NewBaBsForm(tenantID uuid.UUID, formNumber string, formType BaBsFormType, periodYear, periodMonth int, taxID, companyName string) (*BaBsForm, error) {
	if strings.TrimSpace(formNumber) == "" {
		return nil, shared.NewValidationError("INVALID_FORM_NUMBER", "Form number cannot be empty")
	}
	if !formType.IsValid() {
		return nil, shared.NewValidationError("INVALID_FORM_TYPE", "Form type must be BA or BS")
	}
	if periodYear < 2000 || periodYear > 2100 {
		return nil, shared.NewValidationError("INVALID_PERIOD", "Period year out of range")
	}
	if periodMonth < 1 || periodMonth > 12 {
		return nil, shared.NewValidationError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	taxID = strings.TrimSpace(taxID)
	if len(taxID) != 10 && len(taxID) != 11 {
		return nil, shared.NewValidationError("INVALID_TAX_ID", "Tax ID must be 10 or 11 digits")
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, shared.NewValidationError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}

	form := &BaBsForm{
		TenantAggregateRoot:     shared.NewTenantAggregateRoot(tenantID),
		FormNumber:              formNumber,
		FormType:                formType,
		PeriodYear:              periodYear,
		PeriodMonth:             periodMonth,
		FilingDeadline:          filingDeadlineFor(periodYear, periodMonth),
		TaxID:                   taxID,
		CompanyName:             companyName,
		Items:                   make([]BaBsFormItem, 0),
		TotalAmountExcludingVat: decimal.Zero,
		TotalVat:                decimal.Zero,
		TotalAmountIncludingVat: decimal.Zero,
		Status:                  BaBsFormStatusDraft,
	}

	form.AddDomainEvent(NewBaBsFormCreatedEvent(form))

	return form, nil
}

// filingDeadlineFor returns the end of the last day of the month after the period.
func filingDeadlineFor(year, month int) time.Time {
	// First day two months after the period start, minus one second.
	return time.Date(year, time.Month(month)+2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second)
}

// AddItem adds a counterparty line. Only allowed in DRAFT status.
// A counterparty may appear only once per form; amounts for the same tax
// ID must be merged by the caller before adding.
func (f *BaBsForm) AddItem(counterpartyTaxID, counterpartyName string, documentCount int, amountExcludingVat, vatAmount decimal.Decimal) (*BaBsFormItem, error) {
	if f.Status != BaBsFormStatusDraft {
		return nil, shared.NewConflictError("INVALID_STATE", "Cannot add items to a non-draft form")
	}

	for _, item := range f.Items {
		if item.CounterpartyTaxID == strings.TrimSpace(counterpartyTaxID) {
			return nil, shared.NewConflictError("DUPLICATE_COUNTERPARTY", "Counterparty already exists on this form")
		}
	}

	item, err := NewBaBsFormItem(f.ID, counterpartyTaxID, counterpartyName, documentCount, amountExcludingVat, vatAmount)
	if err != nil {
		return nil, err
	}

	f.Items = append(f.Items, *item)
	f.recalculateTotals()
	f.Touch()
	f.IncrementVersion()

	return item, nil
}

// RemoveItem removes a counterparty line. Only allowed in DRAFT status.
func (f *BaBsForm) RemoveItem(itemID uuid.UUID) error {
	if f.Status != BaBsFormStatusDraft {
		return shared.NewConflictError("INVALID_STATE", "Cannot remove items from a non-draft form")
	}

	for idx, item := range f.Items {
		if item.ID == itemID {
			f.Items = append(f.Items[:idx], f.Items[idx+1:]...)
			f.recalculateTotals()
			f.Touch()
			f.IncrementVersion()
			return nil
		}
	}

	return shared.NewNotFoundError("ITEM_NOT_FOUND", "Form item not found")
}

// recalculateTotals recomputes totals and renumbers items by counterparty name.
func (f *BaBsForm) recalculateTotals() {
	exclTotal := decimal.Zero
	vatTotal := decimal.Zero
	for i := range f.Items {
		exclTotal = exclTotal.Add(f.Items[i].AmountExcludingVat)
		vatTotal = vatTotal.Add(f.Items[i].VatAmount)
	}
	f.TotalRecordCount = len(f.Items)
	f.TotalAmountExcludingVat = exclTotal
	f.TotalVat = vatTotal
	f.TotalAmountIncludingVat = exclTotal.Add(vatTotal)

	sortItemsByCounterparty(f.Items)
	for i := range f.Items {
		f.Items[i].SequenceNumber = i + 1
	}
}

func sortItemsByCounterparty(items []BaBsFormItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].CounterpartyName < items[j-1].CounterpartyName; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// MarkReady finalizes the draft: drops lines under the reporting
// threshold, recalculates totals and records the preparer.
// DRAFT -> READY. At least one reportable line must remain.
func (f *BaBsForm) MarkReady(preparedBy string) error {
	if !f.Status.CanTransitionTo(BaBsFormStatusReady) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot mark form ready in %s status", f.Status))
	}
	if strings.TrimSpace(preparedBy) == "" {
		return shared.NewValidationError("PREPARER_REQUIRED", "Preparer is required")
	}

	kept := f.Items[:0]
	for _, item := range f.Items {
		if !item.BelowThreshold() {
			kept = append(kept, item)
		}
	}
	f.Items = kept
	if len(f.Items) == 0 {
		return shared.NewValidationError("NO_REPORTABLE_ITEMS", "Form has no items at or above the reporting threshold")
	}
	f.recalculateTotals()

	now := time.Now()
	f.Status = BaBsFormStatusReady
	f.PreparedBy = preparedBy
	f.PreparedAt = &now
	f.Touch()
	f.IncrementVersion()

	return nil
}

// Approve approves a ready form. READY -> APPROVED.
func (f *BaBsForm) Approve(approvedBy string) error {
	if !f.Status.CanTransitionTo(BaBsFormStatusApproved) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot approve form in %s status", f.Status))
	}
	if strings.TrimSpace(approvedBy) == "" {
		return shared.NewValidationError("APPROVER_REQUIRED", "Approver is required")
	}

	now := time.Now()
	f.Status = BaBsFormStatusApproved
	f.ApprovedBy = approvedBy
	f.ApprovedAt = &now
	f.Touch()
	f.IncrementVersion()

	return nil
}

// File submits the approved form to GIB. APPROVED -> FILED.
func (f *BaBsForm) File(submissionRef string) error {
	if !f.Status.CanTransitionTo(BaBsFormStatusFiled) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot file form in %s status", f.Status))
	}

	now := time.Now()
	f.Status = BaBsFormStatusFiled
	f.FiledAt = &now
	f.GibSubmissionRef = submissionRef
	f.Touch()
	f.IncrementVersion()

	f.AddDomainEvent(NewBaBsFormFiledEvent(f))

	return nil
}

// RecordAcceptance records GIB acceptance. FILED -> ACCEPTED.
func (f *BaBsForm) RecordAcceptance(approvalNumber string) error {
	if !f.Status.CanTransitionTo(BaBsFormStatusAccepted) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot accept form in %s status", f.Status))
	}
	if strings.TrimSpace(approvalNumber) == "" {
		return shared.NewValidationError("APPROVAL_NUMBER_REQUIRED", "GIB approval number is required")
	}

	f.Status = BaBsFormStatusAccepted
	f.GibApprovalNumber = approvalNumber
	f.Touch()
	f.IncrementVersion()

	return nil
}

// RecordRejection records GIB rejection. FILED -> REJECTED. Requires a reason.
func (f *BaBsForm) RecordRejection(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !f.Status.CanTransitionTo(BaBsFormStatusRejected) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot reject form in %s status", f.Status))
	}

	f.Status = BaBsFormStatusRejected
	f.RejectReason = reason
	f.Touch()
	f.IncrementVersion()

	return nil
}

// Cancel cancels the form. Allowed from any status except ACCEPTED and
// CANCELLED. Requires a reason.
func (f *BaBsForm) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if !f.Status.CanTransitionTo(BaBsFormStatusCancelled) {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel form in %s status", f.Status))
	}

	now := time.Now()
	f.Status = BaBsFormStatusCancelled
	f.CancelledAt = &now
	f.CancelReason = reason
	f.Touch()
	f.IncrementVersion()

	return nil
}

// CreateCorrection clones a filed or accepted form into a new draft
// correction form referencing this one.
func (f *BaBsForm) CreateCorrection(formNumber, reason string) (*BaBsForm, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, shared.ErrReasonRequired
	}
	if f.Status != BaBsFormStatusFiled && f.Status != BaBsFormStatusAccepted {
		return nil, shared.NewConflictError("INVALID_STATE", "Only filed or accepted forms can be corrected")
	}

	correction, err := NewBaBsForm(f.TenantID, formNumber, f.FormType, f.PeriodYear, f.PeriodMonth, f.TaxID, f.CompanyName)
	if err != nil {
		return nil, err
	}

	correctedID := f.ID
	correction.IsCorrection = true
	correction.CorrectedFormID = &correctedID
	correction.CorrectionSequence = f.CorrectionSequence + 1
	correction.CorrectionReason = reason

	for _, item := range f.Items {
		if _, err := correction.AddItem(item.CounterpartyTaxID, item.CounterpartyName, item.DocumentCount, item.AmountExcludingVat, item.VatAmount); err != nil {
			return nil, err
		}
	}

	return correction, nil
}

// IsOverdue reports whether the filing deadline has passed without the
// form being filed. Filed, accepted and cancelled forms are never overdue.
func (f *BaBsForm) IsOverdue(now time.Time) bool {
	switch f.Status {
	case BaBsFormStatusFiled, BaBsFormStatusAccepted, BaBsFormStatusCancelled:
		return false
	}
	return f.FilingDeadline.Before(now)
}

// IsDeletable reports whether the form may be hard-deleted
func (f *BaBsForm) IsDeletable() bool {
	return f.Status == BaBsFormStatusDraft || f.Status == BaBsFormStatusCancelled
}
