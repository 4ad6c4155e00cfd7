package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/directory"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTenantRepository implements directory.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Tenant, error) {
	var tenant directory.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*directory.Tenant, error) {
	var tenant directory.Tenant
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindAll finds all tenants matching the filter
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*directory.Tenant, error) {
	var tenants []*directory.Tenant
	query := r.db.WithContext(ctx).Model(&directory.Tenant{})
	query = r.applyFilter(query, filter)
	if err := query.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Count counts tenants matching the filter (ignoring pagination)
func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&directory.Tenant{})
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a tenant code is already taken
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&directory.Tenant{}).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *directory.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

// SaveWithLock saves with optimistic locking. The write is rejected with
// shared.ErrConcurrencyConflict when the stored version no longer matches
// expectedVersion.
func (r *GormTenantRepository) SaveWithLock(ctx context.Context, tenant *directory.Tenant, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&directory.Tenant{}).
			Where("id = ? AND version = ?", tenant.ID, expectedVersion).
			Updates(map[string]interface{}{
				"code":             tenant.Code,
				"name":             tenant.Name,
				"contact_email":    tenant.ContactEmail,
				"status":           tenant.Status,
				"suspended_at":     tenant.SuspendedAt,
				"suspend_reason":   tenant.SuspendReason,
				"terminated_at":    tenant.TerminatedAt,
				"terminate_reason": tenant.TerminateReason,
				"version":          tenant.Version,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockFailure(tx, &directory.Tenant{}, tenant.ID)
		}
		return nil
	})
}

func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, TenantSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormTenantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// lockFailure distinguishes a missing row from a version mismatch after a
// zero-row optimistic update.
func lockFailure(tx *gorm.DB, model interface{}, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// Ensure GormTenantRepository implements TenantRepository
var _ directory.TenantRepository = (*GormTenantRepository)(nil)
