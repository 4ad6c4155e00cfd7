package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/sales"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesReturnRepository implements sales.SalesReturnRepository using GORM
type GormSalesReturnRepository struct {
	db *gorm.DB
}

// NewGormSalesReturnRepository creates a new GormSalesReturnRepository
func NewGormSalesReturnRepository(db *gorm.DB) *GormSalesReturnRepository {
	return &GormSalesReturnRepository{db: db}
}

// FindByIDForTenant finds a sales return by ID within a tenant
func (r *GormSalesReturnRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*sales.SalesReturn, error) {
	var ret sales.SalesReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByReturnNumber finds a sales return by return number for a tenant
func (r *GormSalesReturnRepository) FindByReturnNumber(ctx context.Context, tenantID uuid.UUID, returnNumber string) (*sales.SalesReturn, error) {
	var ret sales.SalesReturn
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND return_number = ?", tenantID, returnNumber).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAllForTenant finds all sales returns for a tenant with filtering
func (r *GormSalesReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*sales.SalesReturn, error) {
	var returns []*sales.SalesReturn
	query := r.db.WithContext(ctx).
		Model(&sales.SalesReturn{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// CountForTenant counts sales returns for a tenant matching the filter
func (r *GormSalesReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&sales.SalesReturn{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReturnNumber generates a unique return number for a tenant.
// Format: SR-YYYY-NNNNN (e.g., SR-2026-00001)
func (r *GormSalesReturnRepository) GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SR-%d-", year)

	var last sales.SalesReturn
	err := r.db.WithContext(ctx).
		Model(&sales.SalesReturn{}).
		Where("tenant_id = ? AND return_number LIKE ?", tenantID, prefix+"%").
		Order("return_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnNumber != "" {
		parts := strings.Split(last.ReturnNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Save creates or updates a sales return together with its items
func (r *GormSalesReturnRepository) Save(ctx context.Context, ret *sales.SalesReturn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(ret).Error; err != nil {
			return err
		}
		return saveSalesReturnItems(tx, ret)
	})
}

// SaveWithLock saves with optimistic locking against expectedVersion
func (r *GormSalesReturnRepository) SaveWithLock(ctx context.Context, ret *sales.SalesReturn, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.SalesReturn{}).
			Where("id = ? AND tenant_id = ? AND version = ?", ret.ID, ret.TenantID, expectedVersion).
			Updates(map[string]interface{}{
				"return_number":    ret.ReturnNumber,
				"customer_id":      ret.CustomerID,
				"customer_name":    ret.CustomerName,
				"reason":           ret.Reason,
				"total_refund":     ret.TotalRefund,
				"status":           ret.Status,
				"submitted_at":     ret.SubmittedAt,
				"approved_by":      ret.ApprovedBy,
				"approved_at":      ret.ApprovedAt,
				"refund_issued_at": ret.RefundIssuedAt,
				"refund_ref":       ret.RefundRef,
				"reject_reason":    ret.RejectReason,
				"cancelled_at":     ret.CancelledAt,
				"cancel_reason":    ret.CancelReason,
				"version":          ret.Version,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockFailure(tx, &sales.SalesReturn{}, ret.ID)
		}
		return saveSalesReturnItems(tx, ret)
	})
}

// DeleteForTenant deletes a sales return and its items for a tenant
func (r *GormSalesReturnRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ret sales.SalesReturn
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&ret).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("return_id = ?", id).Delete(&sales.SalesReturnItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sales.SalesReturn{}, "tenant_id = ? AND id = ?", tenantID, id).Error
	})
}

func saveSalesReturnItems(tx *gorm.DB, ret *sales.SalesReturn) error {
	currentItemIDs := make([]uuid.UUID, len(ret.Items))
	for i, item := range ret.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("return_id = ? AND id NOT IN ?", ret.ID, currentItemIDs).
			Delete(&sales.SalesReturnItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("return_id = ?", ret.ID).
			Delete(&sales.SalesReturnItem{}).Error; err != nil {
			return err
		}
	}

	for i := range ret.Items {
		ret.Items[i].ReturnID = ret.ID
		if err := tx.Save(&ret.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSalesReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, SalesReturnSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormSalesReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	return query
}

// Ensure GormSalesReturnRepository implements SalesReturnRepository
var _ sales.SalesReturnRepository = (*GormSalesReturnRepository)(nil)
