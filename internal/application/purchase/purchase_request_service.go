package purchase

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/purchase"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
)

// PurchaseRequestService handles purchase request business operations
type PurchaseRequestService struct {
	requestRepo     purchase.PurchaseRequestRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseRequestService creates a new PurchaseRequestService
func NewPurchaseRequestService(requestRepo purchase.PurchaseRequestRepository) *PurchaseRequestService {
	return &PurchaseRequestService{
		requestRepo: requestRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseRequestService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new draft purchase request
func (s *PurchaseRequestService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	requestNumber, err := s.requestRepo.GenerateRequestNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	request, err := purchase.NewPurchaseRequest(tenantID, requestNumber, req.Requester, req.Department, req.UrgencyScore, req.NeededBy)
	if err != nil {
		return nil, err
	}
	request.Justification = req.Justification

	for _, item := range req.Items {
		if _, err := request.AddItem(item.ProductName, item.ProductCode, item.Unit, item.Quantity, item.EstimatedUnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// GetByID retrieves a purchase request by ID
func (s *PurchaseRequestService) GetByID(ctx context.Context, tenantID, requestID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// List retrieves purchase requests with filtering and pagination
func (s *PurchaseRequestService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseRequestListFilter) (shared.Paginated[PurchaseRequestListItemResponse], error) {
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
	if filter.Department != "" {
		domainFilter.Filters["department"] = filter.Department
	}

	domainFilter = domainFilter.Normalize()

	requests, err := s.requestRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseRequestListItemResponse]{}, err
	}

	total, err := s.requestRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseRequestListItemResponse]{}, err
	}

	return shared.NewPaginated(ToPurchaseRequestListItemResponses(requests), total, domainFilter.Page, domainFilter.PageSize), nil
}

// AddItem adds a line item to a draft request
func (s *PurchaseRequestService) AddItem(ctx context.Context, tenantID, requestID uuid.UUID, req AddPurchaseRequestItemRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if _, err := request.AddItem(req.ProductName, req.ProductCode, req.Unit, req.Quantity, req.EstimatedUnitCost); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// UpdateItem changes a line item's quantity on a draft request
func (s *PurchaseRequestService) UpdateItem(ctx context.Context, tenantID, requestID, itemID uuid.UUID, req UpdatePurchaseRequestItemRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// RemoveItem removes a line item from a draft request
func (s *PurchaseRequestService) RemoveItem(ctx context.Context, tenantID, requestID, itemID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Submit sends a draft request for approval
func (s *PurchaseRequestService) Submit(ctx context.Context, tenantID, requestID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.Submit(); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Approve approves a pending request
func (s *PurchaseRequestService) Approve(ctx context.Context, tenantID, requestID uuid.UUID, req ApprovePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.Approve(req.ApprovedBy); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordRequestApproved(ctx, tenantID, request.Department)
	}
	s.publishEvents(ctx, request)

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Reject rejects a pending request
func (s *PurchaseRequestService) Reject(ctx context.Context, tenantID, requestID uuid.UUID, req RejectPurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Cancel cancels a draft or pending request
func (s *PurchaseRequestService) Cancel(ctx context.Context, tenantID, requestID uuid.UUID, req CancelPurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.Version
	if err := request.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Delete removes a request. Only draft and cancelled requests can be deleted.
func (s *PurchaseRequestService) Delete(ctx context.Context, tenantID, requestID uuid.UUID) error {
	request, err := s.requestRepo.FindByIDForTenant(ctx, requestID, tenantID)
	if err != nil {
		return err
	}

	if !request.IsDeletable() {
		return shared.NewConflictError("INVALID_STATE", "Only draft and cancelled requests can be deleted")
	}

	return s.requestRepo.DeleteForTenant(ctx, requestID, tenantID)
}

func (s *PurchaseRequestService) publishEvents(ctx context.Context, request *purchase.PurchaseRequest) {
	if s.eventPublisher == nil {
		return
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	request.ClearDomainEvents()
}
