package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/finance"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
)

// BaBsFormService handles Ba-Bs form business operations
type BaBsFormService struct {
	formRepo        finance.BaBsFormRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewBaBsFormService creates a new BaBsFormService
func NewBaBsFormService(formRepo finance.BaBsFormRepository) *BaBsFormService {
	return &BaBsFormService{
		formRepo: formRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BaBsFormService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *BaBsFormService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create opens a new draft form for a period. One form per type and
// period is allowed per tenant.
func (s *BaBsFormService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBaBsFormRequest) (*BaBsFormResponse, error) {
	formType := finance.BaBsFormType(req.FormType)

	exists, err := s.formRepo.ExistsForPeriod(ctx, tenantID, formType, req.PeriodYear, req.PeriodMonth)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("FORM_EXISTS", "A form for this type and period already exists")
	}

	formNumber := fmt.Sprintf("%s-%d-%02d", req.FormType, req.PeriodYear, req.PeriodMonth)
	form, err := finance.NewBaBsForm(tenantID, formNumber, formType, req.PeriodYear, req.PeriodMonth, req.TaxID, req.CompanyName)
	if err != nil {
		return nil, err
	}

	if err := s.formRepo.Save(ctx, form); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, form)

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// GetByID retrieves a form by ID
func (s *BaBsFormService) GetByID(ctx context.Context, tenantID, formID uuid.UUID) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToBaBsFormResponse(form)
	return &response, nil
}

// List retrieves forms with filtering and pagination
func (s *BaBsFormService) List(ctx context.Context, tenantID uuid.UUID, filter BaBsFormListFilter) (shared.Paginated[BaBsFormListItemResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.FormType != "" {
		domainFilter.Filters["form_type"] = filter.FormType
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PeriodYear != nil {
		domainFilter.Filters["period_year"] = *filter.PeriodYear
	}
	if filter.PeriodMonth != nil {
		domainFilter.Filters["period_month"] = *filter.PeriodMonth
	}

	domainFilter = domainFilter.Normalize()

	forms, err := s.formRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[BaBsFormListItemResponse]{}, err
	}

	total, err := s.formRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[BaBsFormListItemResponse]{}, err
	}

	return shared.NewPaginated(ToBaBsFormListItemResponses(forms), total, domainFilter.Page, domainFilter.PageSize), nil
}

// ListOverdue retrieves forms whose filing deadline has passed
func (s *BaBsFormService) ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]BaBsFormListItemResponse, error) {
	forms, err := s.formRepo.FindOverdueForTenant(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	return ToBaBsFormListItemResponses(forms), nil
}

// AddItem adds a counterparty line to a draft form
func (s *BaBsFormService) AddItem(ctx context.Context, tenantID, formID uuid.UUID, req AddBaBsFormItemRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if _, err := form.AddItem(req.CounterpartyTaxID, req.CounterpartyName, req.DocumentCount, req.AmountExcludingVat, req.VatAmount); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// RemoveItem removes a counterparty line from a draft form
func (s *BaBsFormService) RemoveItem(ctx context.Context, tenantID, formID, itemID uuid.UUID) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if err := form.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// MarkReady finalizes a draft form
func (s *BaBsFormService) MarkReady(ctx context.Context, tenantID, formID uuid.UUID, req MarkBaBsFormReadyRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if err := form.MarkReady(req.PreparedBy); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// Approve approves a ready form
func (s *BaBsFormService) Approve(ctx context.Context, tenantID, formID uuid.UUID, req ApproveBaBsFormRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if err := form.Approve(req.ApprovedBy); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// File submits an approved form to GIB
func (s *BaBsFormService) File(ctx context.Context, tenantID, formID uuid.UUID, req FileBaBsFormRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if err := form.File(req.SubmissionRef); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordFormFiled(ctx, tenantID, string(form.FormType))
	}
	s.publishEvents(ctx, form)

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// RecordGibResult records GIB's acceptance or rejection of a filed form
func (s *BaBsFormService) RecordGibResult(ctx context.Context, tenantID, formID uuid.UUID, req RecordGibResultRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if req.Accepted {
		err = form.RecordAcceptance(req.ApprovalNumber)
	} else {
		err = form.RecordRejection(req.Reason)
	}
	if err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// Cancel cancels a form
func (s *BaBsFormService) Cancel(ctx context.Context, tenantID, formID uuid.UUID, req CancelBaBsFormRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := form.Version
	if err := form.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.formRepo.SaveWithLock(ctx, form, expectedVersion); err != nil {
		return nil, err
	}

	response := ToBaBsFormResponse(form)
	return &response, nil
}

// CreateCorrection opens a correction draft for a filed or accepted form
func (s *BaBsFormService) CreateCorrection(ctx context.Context, tenantID, formID uuid.UUID, req CreateBaBsCorrectionRequest) (*BaBsFormResponse, error) {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return nil, err
	}

	correctionNumber := fmt.Sprintf("%s-D%d", form.FormNumber, form.CorrectionSequence+1)
	correction, err := form.CreateCorrection(correctionNumber, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.formRepo.Save(ctx, correction); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, correction)

	response := ToBaBsFormResponse(correction)
	return &response, nil
}

// Delete removes a form. Only draft and cancelled forms can be deleted.
func (s *BaBsFormService) Delete(ctx context.Context, tenantID, formID uuid.UUID) error {
	form, err := s.formRepo.FindByIDForTenant(ctx, formID, tenantID)
	if err != nil {
		return err
	}

	if !form.IsDeletable() {
		return shared.NewConflictError("INVALID_STATE", "Only draft and cancelled forms can be deleted")
	}

	return s.formRepo.DeleteForTenant(ctx, formID, tenantID)
}

func (s *BaBsFormService) publishEvents(ctx context.Context, form *finance.BaBsForm) {
	if s.eventPublisher == nil {
		return
	}
	events := form.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish failures must not fail the command; events are best effort.
	_ = s.eventPublisher.Publish(ctx, events...)
	form.ClearDomainEvents()
}
