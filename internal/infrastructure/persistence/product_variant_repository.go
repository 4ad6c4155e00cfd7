package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/inventory"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductVariantRepository implements inventory.ProductVariantRepository using GORM
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewGormProductVariantRepository creates a new GormProductVariantRepository
func NewGormProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// FindByIDForTenant finds a product variant by ID within a tenant
func (r *GormProductVariantRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*inventory.ProductVariant, error) {
	var variant inventory.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindBySKU finds a product variant by SKU for a tenant
func (r *GormProductVariantRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.ProductVariant, error) {
	var variant inventory.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindAllForTenant finds all product variants for a tenant with filtering
func (r *GormProductVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.ProductVariant, error) {
	var variants []*inventory.ProductVariant
	query := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// CountForTenant counts product variants for a tenant matching the filter
func (r *GormProductVariantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsSKUForOther reports whether another variant of the tenant already uses the SKU
func (r *GormProductVariantRepository) ExistsSKUForOther(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBarcodeForOther reports whether another variant of the tenant already uses the barcode
func (r *GormProductVariantRepository) ExistsBarcodeForOther(ctx context.Context, tenantID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("tenant_id = ? AND barcode = ?", tenantID, barcode)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product variant
func (r *GormProductVariantRepository) Save(ctx context.Context, variant *inventory.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// SaveWithLock saves with optimistic locking against expectedVersion
func (r *GormProductVariantRepository) SaveWithLock(ctx context.Context, variant *inventory.ProductVariant, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductVariant{}).
		Where("id = ? AND tenant_id = ? AND version = ?", variant.ID, variant.TenantID, expectedVersion).
		Updates(map[string]interface{}{
			"product_id":     variant.ProductID,
			"sku":            variant.SKU,
			"barcode":        variant.Barcode,
			"name":           variant.Name,
			"size":           variant.Size,
			"color":          variant.Color,
			"price":          variant.Price,
			"stock_quantity": variant.StockQuantity,
			"is_active":      variant.IsActive,
			"version":        variant.Version,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lockFailure(r.db.WithContext(ctx), &inventory.ProductVariant{}, variant.ID)
	}
	return nil
}

// DeleteForTenant deletes a product variant for a tenant
func (r *GormProductVariantRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&inventory.ProductVariant{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductVariantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ProductVariantSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormProductVariantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ? OR barcode ILIKE ?", pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormProductVariantRepository implements ProductVariantRepository
var _ inventory.ProductVariantRepository = (*GormProductVariantRepository)(nil)
