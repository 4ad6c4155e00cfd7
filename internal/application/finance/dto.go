package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/finance"
)

// CreateBaBsFormRequest represents a request to open a new Ba-Bs form draft
type CreateBaBsFormRequest struct {
	FormType    string `json:"form_type" binding:"required,oneof=BA BS"`
	PeriodYear  int    `json:"period_year" binding:"required,min=2000,max=2100"`
	PeriodMonth int    `json:"period_month" binding:"required,min=1,max=12"`
	TaxID       string `json:"tax_id" binding:"required,min=10,max=11"`
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
}

// AddBaBsFormItemRequest represents a request to add a counterparty line
type AddBaBsFormItemRequest struct {
	CounterpartyTaxID  string          `json:"counterparty_tax_id" binding:"required,min=10,max=11"`
	CounterpartyName   string          `json:"counterparty_name" binding:"required,min=1,max=200"`
	DocumentCount      int             `json:"document_count" binding:"required,min=1"`
	AmountExcludingVat decimal.Decimal `json:"amount_excluding_vat" binding:"required"`
	VatAmount          decimal.Decimal `json:"vat_amount"`
}

// MarkBaBsFormReadyRequest represents a request to finalize a draft form
type MarkBaBsFormReadyRequest struct {
	PreparedBy string `json:"prepared_by" binding:"required,min=1,max=200"`
}

// ApproveBaBsFormRequest represents a request to approve a ready form
type ApproveBaBsFormRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,min=1,max=200"`
}

// FileBaBsFormRequest represents a request to submit a form to GIB
type FileBaBsFormRequest struct {
	SubmissionRef string `json:"submission_ref" binding:"max=100"`
}

// RecordGibResultRequest represents GIB's acceptance or rejection of a filed form
type RecordGibResultRequest struct {
	Accepted       bool   `json:"accepted"`
	ApprovalNumber string `json:"approval_number"`
	Reason         string `json:"reason"`
}

// CancelBaBsFormRequest represents a request to cancel a form
type CancelBaBsFormRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CreateBaBsCorrectionRequest represents a request to open a correction draft
type CreateBaBsCorrectionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// BaBsFormListFilter represents filter options for the form list
type BaBsFormListFilter struct {
	Search      string `form:"search"`
	FormType    string `form:"form_type" binding:"omitempty,oneof=BA BS"`
	Status      string `form:"status"`
	PeriodYear  *int   `form:"period_year"`
	PeriodMonth *int   `form:"period_month"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BaBsFormItemResponse represents a counterparty line in API responses
type BaBsFormItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	SequenceNumber     int             `json:"sequence_number"`
	CounterpartyTaxID  string          `json:"counterparty_tax_id"`
	CounterpartyName   string          `json:"counterparty_name"`
	DocumentCount      int             `json:"document_count"`
	AmountExcludingVat decimal.Decimal `json:"amount_excluding_vat"`
	VatAmount          decimal.Decimal `json:"vat_amount"`
	AmountIncludingVat decimal.Decimal `json:"amount_including_vat"`
}

// BaBsFormResponse represents a Ba-Bs form in API responses
type BaBsFormResponse struct {
	ID                      uuid.UUID              `json:"id"`
	TenantID                uuid.UUID              `json:"tenant_id"`
	FormNumber              string                 `json:"form_number"`
	FormType                string                 `json:"form_type"`
	PeriodYear              int                    `json:"period_year"`
	PeriodMonth             int                    `json:"period_month"`
	FilingDeadline          time.Time              `json:"filing_deadline"`
	TaxID                   string                 `json:"tax_id"`
	CompanyName             string                 `json:"company_name"`
	Items                   []BaBsFormItemResponse `json:"items"`
	TotalRecordCount        int                    `json:"total_record_count"`
	TotalAmountExcludingVat decimal.Decimal        `json:"total_amount_excluding_vat"`
	TotalVat                decimal.Decimal        `json:"total_vat"`
	TotalAmountIncludingVat decimal.Decimal        `json:"total_amount_including_vat"`
	Status                  string                 `json:"status"`
	IsOverdue               bool                   `json:"is_overdue"`
	IsCorrection            bool                   `json:"is_correction"`
	CorrectedFormID         *uuid.UUID             `json:"corrected_form_id,omitempty"`
	CorrectionSequence      int                    `json:"correction_sequence,omitempty"`
	PreparedBy              string                 `json:"prepared_by,omitempty"`
	PreparedAt              *time.Time             `json:"prepared_at,omitempty"`
	ApprovedBy              string                 `json:"approved_by,omitempty"`
	ApprovedAt              *time.Time             `json:"approved_at,omitempty"`
	FiledAt                 *time.Time             `json:"filed_at,omitempty"`
	GibSubmissionRef        string                 `json:"gib_submission_ref,omitempty"`
	GibApprovalNumber       string                 `json:"gib_approval_number,omitempty"`
	RejectReason            string                 `json:"reject_reason,omitempty"`
	CancelReason            string                 `json:"cancel_reason,omitempty"`
	Version                 int                    `json:"version"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
}

// BaBsFormListItemResponse represents a form in list responses
type BaBsFormListItemResponse struct {
	ID                      uuid.UUID       `json:"id"`
	FormNumber              string          `json:"form_number"`
	FormType                string          `json:"form_type"`
	PeriodYear              int             `json:"period_year"`
	PeriodMonth             int             `json:"period_month"`
	FilingDeadline          time.Time       `json:"filing_deadline"`
	TotalRecordCount        int             `json:"total_record_count"`
	TotalAmountIncludingVat decimal.Decimal `json:"total_amount_including_vat"`
	Status                  string          `json:"status"`
	IsOverdue               bool            `json:"is_overdue"`
	IsCorrection            bool            `json:"is_correction"`
	CreatedAt               time.Time       `json:"created_at"`
}

// ToBaBsFormResponse converts a domain form to a response DTO
func ToBaBsFormResponse(form *finance.BaBsForm) BaBsFormResponse {
	items := make([]BaBsFormItemResponse, 0, len(form.Items))
	for _, item := range form.Items {
		items = append(items, BaBsFormItemResponse{
			ID:                 item.ID,
			SequenceNumber:     item.SequenceNumber,
			CounterpartyTaxID:  item.CounterpartyTaxID,
			CounterpartyName:   item.CounterpartyName,
			DocumentCount:      item.DocumentCount,
			AmountExcludingVat: item.AmountExcludingVat,
			VatAmount:          item.VatAmount,
			AmountIncludingVat: item.AmountIncludingVat,
		})
	}

	return BaBsFormResponse{
		ID:                      form.ID,
		TenantID:                form.TenantID,
		FormNumber:              form.FormNumber,
		FormType:                string(form.FormType),
		PeriodYear:              form.PeriodYear,
		PeriodMonth:             form.PeriodMonth,
		FilingDeadline:          form.FilingDeadline,
		TaxID:                   form.TaxID,
		CompanyName:             form.CompanyName,
		Items:                   items,
		TotalRecordCount:        form.TotalRecordCount,
		TotalAmountExcludingVat: form.TotalAmountExcludingVat,
		TotalVat:                form.TotalVat,
		TotalAmountIncludingVat: form.TotalAmountIncludingVat,
		Status:                  string(form.Status),
		IsOverdue:               form.IsOverdue(time.Now()),
		IsCorrection:            form.IsCorrection,
		CorrectedFormID:         form.CorrectedFormID,
		CorrectionSequence:      form.CorrectionSequence,
		PreparedBy:              form.PreparedBy,
		PreparedAt:              form.PreparedAt,
		ApprovedBy:              form.ApprovedBy,
		ApprovedAt:              form.ApprovedAt,
		FiledAt:                 form.FiledAt,
		GibSubmissionRef:        form.GibSubmissionRef,
		GibApprovalNumber:       form.GibApprovalNumber,
		RejectReason:            form.RejectReason,
		CancelReason:            form.CancelReason,
		Version:                 form.Version,
		CreatedAt:               form.CreatedAt,
		UpdatedAt:               form.UpdatedAt,
	}
}

// ToBaBsFormListItemResponses converts domain forms to list item DTOs
func ToBaBsFormListItemResponses(forms []*finance.BaBsForm) []BaBsFormListItemResponse {
	now := time.Now()
	responses := make([]BaBsFormListItemResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, BaBsFormListItemResponse{
			ID:                      form.ID,
			FormNumber:              form.FormNumber,
			FormType:                string(form.FormType),
			PeriodYear:              form.PeriodYear,
			PeriodMonth:             form.PeriodMonth,
			FilingDeadline:          form.FilingDeadline,
			TotalRecordCount:        form.TotalRecordCount,
			TotalAmountIncludingVat: form.TotalAmountIncludingVat,
			Status:                  string(form.Status),
			IsOverdue:               form.IsOverdue(now),
			IsCorrection:            form.IsCorrection,
			CreatedAt:               form.CreatedAt,
		})
	}
	return responses
}
