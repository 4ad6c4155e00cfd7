package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/sales"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
)

// SalesReturnService handles sales return business operations
type SalesReturnService struct {
	returnRepo      sales.SalesReturnRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewSalesReturnService creates a new SalesReturnService
func NewSalesReturnService(returnRepo sales.SalesReturnRepository) *SalesReturnService {
	return &SalesReturnService{
		returnRepo: returnRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *SalesReturnService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new draft sales return
func (s *SalesReturnService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesReturnRequest) (*SalesReturnResponse, error) {
	returnNumber, err := s.returnRepo.GenerateReturnNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ret, err := sales.NewSalesReturn(tenantID, returnNumber, req.CustomerID, req.CustomerName, req.Reason)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := ret.AddItem(item.ProductName, item.ProductCode, item.Condition, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ret)

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a sales return by ID
func (s *SalesReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// List retrieves sales returns with filtering and pagination
func (s *SalesReturnService) List(ctx context.Context, tenantID uuid.UUID, filter SalesReturnListFilter) (shared.Paginated[SalesReturnListItemResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	domainFilter = domainFilter.Normalize()

	returns, err := s.returnRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SalesReturnListItemResponse]{}, err
	}

	total, err := s.returnRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SalesReturnListItemResponse]{}, err
	}

	return shared.NewPaginated(ToSalesReturnListItemResponses(returns), total, domainFilter.Page, domainFilter.PageSize), nil
}

// AddItem adds a return line to a draft return
func (s *SalesReturnService) AddItem(ctx context.Context, tenantID, returnID uuid.UUID, req AddSalesReturnItemRequest) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if _, err := ret.AddItem(req.ProductName, req.ProductCode, req.Condition, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// RemoveItem removes a return line from a draft return
func (s *SalesReturnService) RemoveItem(ctx context.Context, tenantID, returnID, itemID uuid.UUID) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Submit sends a draft return for approval
func (s *SalesReturnService) Submit(ctx context.Context, tenantID, returnID uuid.UUID) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.Submit(); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Approve approves a submitted return
func (s *SalesReturnService) Approve(ctx context.Context, tenantID, returnID uuid.UUID, req ApproveSalesReturnRequest) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.Approve(req.ApprovedBy); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Complete records the refund and closes the return
func (s *SalesReturnService) Complete(ctx context.Context, tenantID, returnID uuid.UUID, req CompleteSalesReturnRequest) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.Complete(req.RefundRef); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReturnCompleted(ctx, tenantID)
	}
	s.publishEvents(ctx, ret)

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Reject rejects a submitted return
func (s *SalesReturnService) Reject(ctx context.Context, tenantID, returnID uuid.UUID, req RejectSalesReturnRequest) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Cancel cancels a draft or submitted return
func (s *SalesReturnService) Cancel(ctx context.Context, tenantID, returnID uuid.UUID, req CancelSalesReturnRequest) (*SalesReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := ret.Version
	if err := ret.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, ret, expectedVersion); err != nil {
		return nil, err
	}

	response := ToSalesReturnResponse(ret)
	return &response, nil
}

// Delete removes a return. Only draft and cancelled returns can be deleted.
func (s *SalesReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, returnID, tenantID)
	if err != nil {
		return err
	}

	if ret.Status != sales.SalesReturnStatusDraft && ret.Status != sales.SalesReturnStatusCancelled {
		return shared.NewConflictError("INVALID_STATE", "Only draft and cancelled returns can be deleted")
	}

	return s.returnRepo.DeleteForTenant(ctx, returnID, tenantID)
}

func (s *SalesReturnService) publishEvents(ctx context.Context, ret *sales.SalesReturn) {
	if s.eventPublisher == nil {
		return
	}
	events := ret.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	ret.ClearDomainEvents()
}
