package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/inventory"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/domain/shared/valueobject"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
)

// ProductVariantService handles product variant business operations
type ProductVariantService struct {
	variantRepo     inventory.ProductVariantRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewProductVariantService creates a new ProductVariantService
func NewProductVariantService(variantRepo inventory.ProductVariantRepository) *ProductVariantService {
	return &ProductVariantService{
		variantRepo: variantRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductVariantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ProductVariantService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new product variant. SKU and barcode must be unique
// within the tenant.
func (s *ProductVariantService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductVariantRequest) (*ProductVariantResponse, error) {
	if err := s.checkUniqueness(ctx, tenantID, req.SKU, req.Barcode, uuid.Nil); err != nil {
		return nil, err
	}

	variant, err := inventory.NewProductVariant(tenantID, req.ProductID, req.SKU, req.Barcode, req.Name, req.Size, req.Color, valueobject.NewMoneyTRY(req.Price))
	if err != nil {
		return nil, err
	}

	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, variant)

	response := ToProductVariantResponse(variant)
	return &response, nil
}

// GetByID retrieves a variant by ID
func (s *ProductVariantService) GetByID(ctx context.Context, tenantID, variantID uuid.UUID) (*ProductVariantResponse, error) {
	variant, err := s.variantRepo.FindByIDForTenant(ctx, variantID, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToProductVariantResponse(variant)
	return &response, nil
}

// List retrieves variants with filtering and pagination
func (s *ProductVariantService) List(ctx context.Context, tenantID uuid.UUID, filter ProductVariantListFilter) (shared.Paginated[ProductVariantResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	domainFilter = domainFilter.Normalize()

	variants, err := s.variantRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[ProductVariantResponse]{}, err
	}

	total, err := s.variantRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[ProductVariantResponse]{}, err
	}

	return shared.NewPaginated(ToProductVariantResponses(variants), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update updates a variant. SKU and barcode uniqueness is checked
// against all other variants of the tenant, excluding this one.
func (s *ProductVariantService) Update(ctx context.Context, tenantID, variantID uuid.UUID, req UpdateProductVariantRequest) (*ProductVariantResponse, error) {
	variant, err := s.variantRepo.FindByIDForTenant(ctx, variantID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, tenantID, req.SKU, req.Barcode, variantID); err != nil {
		return nil, err
	}

	expectedVersion := variant.Version
	if err := variant.Update(req.SKU, req.Barcode, req.Name, req.Size, req.Color, valueobject.NewMoneyTRY(req.Price)); err != nil {
		return nil, err
	}

	if err := s.variantRepo.SaveWithLock(ctx, variant, expectedVersion); err != nil {
		return nil, err
	}

	response := ToProductVariantResponse(variant)
	return &response, nil
}

// ReceiveStock adds stock to a variant
func (s *ProductVariantService) ReceiveStock(ctx context.Context, tenantID, variantID uuid.UUID, req AdjustStockRequest) (*ProductVariantResponse, error) {
	variant, err := s.variantRepo.FindByIDForTenant(ctx, variantID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := variant.Version
	if err := variant.Receive(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.variantRepo.SaveWithLock(ctx, variant, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, variant)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockLevel(ctx, tenantID, variant.ProductID, int64(variant.StockQuantity))
	}

	response := ToProductVariantResponse(variant)
	return &response, nil
}

// IssueStock removes stock from a variant
func (s *ProductVariantService) IssueStock(ctx context.Context, tenantID, variantID uuid.UUID, req AdjustStockRequest) (*ProductVariantResponse, error) {
	variant, err := s.variantRepo.FindByIDForTenant(ctx, variantID, tenantID)
	if err != nil {
		return nil, err
	}

	expectedVersion := variant.Version
	if err := variant.Issue(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.variantRepo.SaveWithLock(ctx, variant, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, variant)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockLevel(ctx, tenantID, variant.ProductID, int64(variant.StockQuantity))
	}

	response := ToProductVariantResponse(variant)
	return &response, nil
}

// Delete removes a variant. Variants holding stock cannot be deleted.
func (s *ProductVariantService) Delete(ctx context.Context, tenantID, variantID uuid.UUID) error {
	variant, err := s.variantRepo.FindByIDForTenant(ctx, variantID, tenantID)
	if err != nil {
		return err
	}

	if !variant.IsDeletable() {
		return shared.NewValidationError("STOCK_NOT_EMPTY", "Variant still holds stock and cannot be deleted")
	}

	return s.variantRepo.DeleteForTenant(ctx, variantID, tenantID)
}

func (s *ProductVariantService) checkUniqueness(ctx context.Context, tenantID uuid.UUID, sku, barcode string, excludeID uuid.UUID) error {
	sku = strings.TrimSpace(strings.ToUpper(sku))
	exists, err := s.variantRepo.ExistsSKUForOther(ctx, tenantID, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewConflictError("SKU_EXISTS", "Another variant already uses this SKU")
	}

	barcode = strings.TrimSpace(barcode)
	if barcode != "" {
		exists, err = s.variantRepo.ExistsBarcodeForOther(ctx, tenantID, barcode, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("BARCODE_EXISTS", "Another variant already uses this barcode")
		}
	}

	return nil
}

func (s *ProductVariantService) publishEvents(ctx context.Context, variant *inventory.ProductVariant) {
	if s.eventPublisher == nil {
		return
	}
	events := variant.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	variant.ClearDomainEvents()
}
