package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/directory"
	"github.com/stocker/backend/internal/domain/shared"
)

// TenantService handles master tenant directory operations
type TenantService struct {
	tenantRepo     directory.TenantRepository
	eventPublisher shared.EventPublisher
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo directory.TenantRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new tenant. Codes are unique across the directory.
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	tenant, err := directory.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.tenantRepo.ExistsByCode(ctx, tenant.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("CODE_EXISTS", "A tenant with this code already exists")
	}

	if err := tenant.SetContactEmail(req.ContactEmail); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByCode retrieves a tenant by code
func (s *TenantService) GetByCode(ctx context.Context, code string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// List retrieves tenants with filtering and pagination
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) (shared.Paginated[TenantResponse], error) {
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

	domainFilter = domainFilter.Normalize()

	tenants, err := s.tenantRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[TenantResponse]{}, err
	}

	total, err := s.tenantRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[TenantResponse]{}, err
	}

	return shared.NewPaginated(ToTenantResponses(tenants), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes a tenant's name and contact details
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := tenant.Version
	if req.Name != nil {
		if err := tenant.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactEmail != nil {
		if err := tenant.SetContactEmail(*req.ContactEmail); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, expectedVersion); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Suspend suspends an active tenant
func (s *TenantService) Suspend(ctx context.Context, tenantID uuid.UUID, req SuspendTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := tenant.Version
	if err := tenant.Suspend(req.Reason); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Reactivate reactivates a suspended tenant
func (s *TenantService) Reactivate(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := tenant.Version
	if err := tenant.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, expectedVersion); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Terminate terminates a tenant permanently
func (s *TenantService) Terminate(ctx context.Context, tenantID uuid.UUID, req TerminateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := tenant.Version
	if err := tenant.Terminate(req.Reason); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenant)

	response := ToTenantResponse(tenant)
	return &response, nil
}

func (s *TenantService) publishEvents(ctx context.Context, tenant *directory.Tenant) {
	if s.eventPublisher == nil {
		return
	}
	events := tenant.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	tenant.ClearDomainEvents()
}
