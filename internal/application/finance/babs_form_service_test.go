package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stocker/backend/internal/domain/finance"
	"github.com/stocker/backend/internal/domain/shared"
)

// MockBaBsFormRepository is a mock implementation of finance.BaBsFormRepository
type MockBaBsFormRepository struct {
	mock.Mock
}

func (m *MockBaBsFormRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*finance.BaBsForm, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BaBsForm), args.Error(1)
}

func (m *MockBaBsFormRepository) FindByFormNumber(ctx context.Context, tenantID uuid.UUID, formNumber string) (*finance.BaBsForm, error) {
	args := m.Called(ctx, tenantID, formNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BaBsForm), args.Error(1)
}

func (m *MockBaBsFormRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.BaBsForm, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.BaBsForm), args.Error(1)
}

func (m *MockBaBsFormRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBaBsFormRepository) FindOverdueForTenant(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]*finance.BaBsForm, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.BaBsForm), args.Error(1)
}

func (m *MockBaBsFormRepository) ExistsForPeriod(ctx context.Context, tenantID uuid.UUID, formType finance.BaBsFormType, year, month int) (bool, error) {
	args := m.Called(ctx, tenantID, formType, year, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockBaBsFormRepository) Save(ctx context.Context, form *finance.BaBsForm) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockBaBsFormRepository) SaveWithLock(ctx context.Context, form *finance.BaBsForm, expectedVersion int) error {
	args := m.Called(ctx, form, expectedVersion)
	return args.Error(0)
}

func (m *MockBaBsFormRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	args := m.Called(ctx, id, tenantID)
	return args.Error(0)
}

func draftFormWithItem(t *testing.T, tenantID uuid.UUID) *finance.BaBsForm {
	t.Helper()
	form, err := finance.NewBaBsForm(tenantID, "BS-2026-01", finance.BaBsFormTypeBs, 2026, 1, "1234567890", "Stocker A.S.")
	require.NoError(t, err)
	_, err = form.AddItem("1111111111", "Beta Ltd", 2, decimal.NewFromInt(9000), decimal.NewFromInt(1800))
	require.NoError(t, err)
	return form
}

func TestBaBsFormServiceCreate(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	repo.On("ExistsForPeriod", mock.Anything, tenantID, finance.BaBsFormTypeBs, 2026, 1).Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*finance.BaBsForm")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateBaBsFormRequest{
		FormType:    "BS",
		PeriodYear:  2026,
		PeriodMonth: 1,
		TaxID:       "1234567890",
		CompanyName: "Stocker A.S.",
	})

	require.NoError(t, err)
	assert.Equal(t, "BS-2026-01", resp.FormNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	repo.AssertExpectations(t)
}

func TestBaBsFormServiceCreateDuplicatePeriod(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	repo.On("ExistsForPeriod", mock.Anything, tenantID, finance.BaBsFormTypeBs, 2026, 1).Return(true, nil)

	_, err := service.Create(context.Background(), tenantID, CreateBaBsFormRequest{
		FormType:    "BS",
		PeriodYear:  2026,
		PeriodMonth: 1,
		TaxID:       "1234567890",
		CompanyName: "Stocker A.S.",
	})

	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBaBsFormServiceGetByIDNotFound(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()
	formID := uuid.New()

	repo.On("FindByIDForTenant", mock.Anything, formID, tenantID).Return(nil, shared.ErrNotFound)

	_, err := service.GetByID(context.Background(), tenantID, formID)
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestBaBsFormServiceMarkReady(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()
	form := draftFormWithItem(t, tenantID)
	versionBefore := form.Version

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)
	repo.On("SaveWithLock", mock.Anything, form, versionBefore).Return(nil)

	resp, err := service.MarkReady(context.Background(), tenantID, form.ID, MarkBaBsFormReadyRequest{PreparedBy: "muhasebe"})

	require.NoError(t, err)
	assert.Equal(t, "READY", resp.Status)
	repo.AssertExpectations(t)
}

func TestBaBsFormServiceMarkReadyInvalidState(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()
	form := draftFormWithItem(t, tenantID)
	require.NoError(t, form.Cancel("iptal"))

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)

	_, err := service.MarkReady(context.Background(), tenantID, form.ID, MarkBaBsFormReadyRequest{PreparedBy: "muhasebe"})

	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestBaBsFormServiceConcurrencyConflict(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()
	form := draftFormWithItem(t, tenantID)

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)
	repo.On("SaveWithLock", mock.Anything, form, mock.AnythingOfType("int")).Return(shared.ErrConcurrencyConflict)

	_, err := service.MarkReady(context.Background(), tenantID, form.ID, MarkBaBsFormReadyRequest{PreparedBy: "muhasebe"})

	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestBaBsFormServiceRecordGibResult(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	form := draftFormWithItem(t, tenantID)
	require.NoError(t, form.MarkReady("a"))
	require.NoError(t, form.Approve("b"))
	require.NoError(t, form.File("ref"))

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)
	repo.On("SaveWithLock", mock.Anything, form, mock.AnythingOfType("int")).Return(nil)

	resp, err := service.RecordGibResult(context.Background(), tenantID, form.ID, RecordGibResultRequest{
		Accepted:       true,
		ApprovalNumber: "GIB-42",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", resp.Status)
}

func TestBaBsFormServiceDelete(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	draft := draftFormWithItem(t, tenantID)
	repo.On("FindByIDForTenant", mock.Anything, draft.ID, tenantID).Return(draft, nil)
	repo.On("DeleteForTenant", mock.Anything, draft.ID, tenantID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), tenantID, draft.ID))
	repo.AssertExpectations(t)
}

func TestBaBsFormServiceDeleteFiledForm(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	form := draftFormWithItem(t, tenantID)
	require.NoError(t, form.MarkReady("a"))

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)

	err := service.Delete(context.Background(), tenantID, form.ID)
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestBaBsFormServiceCreateCorrection(t *testing.T) {
	repo := new(MockBaBsFormRepository)
	service := NewBaBsFormService(repo)
	tenantID := uuid.New()

	form := draftFormWithItem(t, tenantID)
	require.NoError(t, form.MarkReady("a"))
	require.NoError(t, form.Approve("b"))
	require.NoError(t, form.File("ref"))

	repo.On("FindByIDForTenant", mock.Anything, form.ID, tenantID).Return(form, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*finance.BaBsForm")).Return(nil)

	resp, err := service.CreateCorrection(context.Background(), tenantID, form.ID, CreateBaBsCorrectionRequest{Reason: "Tutar hatasi"})

	require.NoError(t, err)
	assert.Equal(t, "BS-2026-01-D1", resp.FormNumber)
	assert.True(t, resp.IsCorrection)
	assert.Equal(t, "DRAFT", resp.Status)
}
