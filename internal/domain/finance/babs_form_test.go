package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker/backend/internal/domain/shared"
)

func newDraftForm(t *testing.T) *BaBsForm {
	t.Helper()
	form, err := NewBaBsForm(uuid.New(), "BS-2026-01-001", BaBsFormTypeBs, 2026, 1, "1234567890", "Stocker Yazilim A.S.")
	require.NoError(t, err)
	return form
}

func addItem(t *testing.T, form *BaBsForm, taxID, name string, excl int64) {
	t.Helper()
	_, err := form.AddItem(taxID, name, 3, decimal.NewFromInt(excl), decimal.NewFromInt(excl/5))
	require.NoError(t, err)
}

func TestNewBaBsForm(t *testing.T) {
	tenantID := uuid.New()

	form, err := NewBaBsForm(tenantID, "BA-2026-03-001", BaBsFormTypeBa, 2026, 3, "12345678901", "Ornek Ticaret Ltd.")
	require.NoError(t, err)

	assert.Equal(t, tenantID, form.TenantID)
	assert.Equal(t, BaBsFormStatusDraft, form.Status)
	assert.Equal(t, 1, form.Version)
	assert.True(t, form.TotalAmountExcludingVat.IsZero())
	assert.Len(t, form.GetDomainEvents(), 1)

	// Period 2026-03 must be filed by end of April 2026.
	assert.Equal(t, 2026, form.FilingDeadline.Year())
	assert.Equal(t, time.April, form.FilingDeadline.Month())
	assert.Equal(t, 30, form.FilingDeadline.Day())
}

func TestNewBaBsFormValidation(t *testing.T) {
	tests := []struct {
		name        string
		formNumber  string
		formType    BaBsFormType
		month       int
		taxID       string
		companyName string
	}{
		{"empty form number", "", BaBsFormTypeBa, 1, "1234567890", "Firma"},
		{"invalid form type", "BA-001", BaBsFormType("BX"), 1, "1234567890", "Firma"},
		{"month too low", "BA-001", BaBsFormTypeBa, 0, "1234567890", "Firma"},
		{"month too high", "BA-001", BaBsFormTypeBa, 13, "1234567890", "Firma"},
		{"short tax id", "BA-001", BaBsFormTypeBa, 1, "123", "Firma"},
		{"empty company name", "BA-001", BaBsFormTypeBa, 1, "1234567890", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBaBsForm(uuid.New(), tt.formNumber, tt.formType, 2026, tt.month, tt.taxID, tt.companyName)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func TestBaBsFormAddItem(t *testing.T) {
	form := newDraftForm(t)

	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	addItem(t, form, "2222222222", "Alfa A.S.", 6000)

	assert.Equal(t, 2, form.TotalRecordCount)
	assert.True(t, form.TotalAmountExcludingVat.Equal(decimal.NewFromInt(16000)))
	assert.True(t, form.TotalVat.Equal(decimal.NewFromInt(3200)))
	assert.True(t, form.TotalAmountIncludingVat.Equal(decimal.NewFromInt(19200)))

	// Items are kept sorted by counterparty name with renumbered sequences.
	assert.Equal(t, "Alfa A.S.", form.Items[0].CounterpartyName)
	assert.Equal(t, 1, form.Items[0].SequenceNumber)
	assert.Equal(t, "Beta Ltd", form.Items[1].CounterpartyName)
	assert.Equal(t, 2, form.Items[1].SequenceNumber)
}

func TestBaBsFormAddItemDuplicateCounterparty(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)

	_, err := form.AddItem("1111111111", "Beta Ltd", 1, decimal.NewFromInt(500), decimal.Zero)
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestBaBsFormAddItemAfterReady(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	require.NoError(t, form.MarkReady("muhasebe@stocker.app"))

	_, err := form.AddItem("2222222222", "Alfa A.S.", 1, decimal.NewFromInt(6000), decimal.Zero)
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestBaBsFormRemoveItem(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	addItem(t, form, "2222222222", "Alfa A.S.", 6000)

	require.NoError(t, form.RemoveItem(form.Items[0].ID))
	assert.Equal(t, 1, form.TotalRecordCount)
	assert.True(t, form.TotalAmountExcludingVat.Equal(decimal.NewFromInt(10000)))

	err := form.RemoveItem(uuid.New())
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestBaBsFormMarkReadyFiltersThreshold(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	addItem(t, form, "2222222222", "Alfa A.S.", 4999)
	addItem(t, form, "3333333333", "Gamma Ltd", 5000)

	require.NoError(t, form.MarkReady("muhasebe@stocker.app"))

	assert.Equal(t, BaBsFormStatusReady, form.Status)
	assert.Equal(t, "muhasebe@stocker.app", form.PreparedBy)
	require.NotNil(t, form.PreparedAt)

	// The 4,999 TRY line falls under the 5,000 threshold and is dropped;
	// the exactly-5,000 line stays.
	require.Len(t, form.Items, 2)
	assert.Equal(t, 2, form.TotalRecordCount)
	assert.True(t, form.TotalAmountExcludingVat.Equal(decimal.NewFromInt(15000)))
}

func TestBaBsFormMarkReadyNoReportableItems(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "2222222222", "Alfa A.S.", 4999)

	err := form.MarkReady("muhasebe@stocker.app")
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	assert.Equal(t, BaBsFormStatusDraft, form.Status)
}

func TestBaBsFormFullLifecycle(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)

	require.NoError(t, form.MarkReady("muhasebe@stocker.app"))
	require.NoError(t, form.Approve("mali-musavir@stocker.app"))
	assert.Equal(t, BaBsFormStatusApproved, form.Status)

	require.NoError(t, form.File("GIB-REF-42"))
	assert.Equal(t, BaBsFormStatusFiled, form.Status)
	assert.Equal(t, "GIB-REF-42", form.GibSubmissionRef)
	require.NotNil(t, form.FiledAt)

	require.NoError(t, form.RecordAcceptance("GIB-ONAY-7"))
	assert.Equal(t, BaBsFormStatusAccepted, form.Status)
	assert.Equal(t, "GIB-ONAY-7", form.GibApprovalNumber)
}

func TestBaBsFormRejection(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	require.NoError(t, form.MarkReady("muhasebe@stocker.app"))
	require.NoError(t, form.Approve("mali-musavir@stocker.app"))
	require.NoError(t, form.File("GIB-REF-42"))

	err := form.RecordRejection("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrReasonRequired))
	assert.Equal(t, BaBsFormStatusFiled, form.Status)

	require.NoError(t, form.RecordRejection("Vergi numarasi hatali"))
	assert.Equal(t, BaBsFormStatusRejected, form.Status)
	assert.Equal(t, "Vergi numarasi hatali", form.RejectReason)
}

func TestBaBsFormInvalidTransitions(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)

	// Draft cannot skip ahead.
	require.Error(t, form.Approve("x"))
	require.Error(t, form.File("ref"))
	require.Error(t, form.RecordAcceptance("onay"))
	require.Error(t, form.RecordRejection("sebep"))
	assert.Equal(t, BaBsFormStatusDraft, form.Status)
}

func TestBaBsFormCancel(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)

	require.NoError(t, form.Cancel("Donem yanlis acildi"))
	assert.Equal(t, BaBsFormStatusCancelled, form.Status)
	require.NotNil(t, form.CancelledAt)

	// Cancelled is terminal.
	require.Error(t, form.Cancel("tekrar"))
}

func TestBaBsFormCancelRequiresReason(t *testing.T) {
	form := newDraftForm(t)

	err := form.Cancel("  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrReasonRequired))
	assert.Equal(t, BaBsFormStatusDraft, form.Status)
}

func TestBaBsFormCancelAfterAcceptance(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	require.NoError(t, form.MarkReady("a"))
	require.NoError(t, form.Approve("b"))
	require.NoError(t, form.File("ref"))
	require.NoError(t, form.RecordAcceptance("onay"))

	err := form.Cancel("gecersiz")
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestBaBsFormIsOverdue(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	draft := newDraftForm(t) // period 2026-01, deadline end of February 2026
	assert.True(t, draft.IsOverdue(now))
	assert.False(t, draft.IsOverdue(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))

	addItem(t, draft, "1111111111", "Beta Ltd", 10000)
	require.NoError(t, draft.MarkReady("a"))
	require.NoError(t, draft.Approve("b"))
	require.NoError(t, draft.File("ref"))
	assert.False(t, draft.IsOverdue(now))

	cancelled := newDraftForm(t)
	require.NoError(t, cancelled.Cancel("iptal"))
	assert.False(t, cancelled.IsOverdue(now))
}

func TestBaBsFormCreateCorrection(t *testing.T) {
	form := newDraftForm(t)
	addItem(t, form, "1111111111", "Beta Ltd", 10000)
	require.NoError(t, form.MarkReady("a"))
	require.NoError(t, form.Approve("b"))
	require.NoError(t, form.File("ref"))

	correction, err := form.CreateCorrection("BS-2026-01-001-D1", "Tutar duzeltmesi")
	require.NoError(t, err)

	assert.Equal(t, BaBsFormStatusDraft, correction.Status)
	assert.True(t, correction.IsCorrection)
	require.NotNil(t, correction.CorrectedFormID)
	assert.Equal(t, form.ID, *correction.CorrectedFormID)
	assert.Equal(t, 1, correction.CorrectionSequence)
	assert.Len(t, correction.Items, 1)
	assert.True(t, correction.TotalAmountExcludingVat.Equal(form.TotalAmountExcludingVat))
}

func TestBaBsFormCreateCorrectionFromDraft(t *testing.T) {
	form := newDraftForm(t)

	_, err := form.CreateCorrection("BS-2026-01-001-D1", "sebep")
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestBaBsFormStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BaBsFormStatus
		to      BaBsFormStatus
		allowed bool
	}{
		{BaBsFormStatusDraft, BaBsFormStatusReady, true},
		{BaBsFormStatusDraft, BaBsFormStatusFiled, false},
		{BaBsFormStatusReady, BaBsFormStatusApproved, true},
		{BaBsFormStatusReady, BaBsFormStatusDraft, false},
		{BaBsFormStatusApproved, BaBsFormStatusFiled, true},
		{BaBsFormStatusFiled, BaBsFormStatusAccepted, true},
		{BaBsFormStatusFiled, BaBsFormStatusRejected, true},
		{BaBsFormStatusAccepted, BaBsFormStatusCancelled, false},
		{BaBsFormStatusRejected, BaBsFormStatusCancelled, true},
		{BaBsFormStatusCancelled, BaBsFormStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
