package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/purchase"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseRequestRepository implements purchase.PurchaseRequestRepository using GORM
type GormPurchaseRequestRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequestRepository creates a new GormPurchaseRequestRepository
func NewGormPurchaseRequestRepository(db *gorm.DB) *GormPurchaseRequestRepository {
	return &GormPurchaseRequestRepository{db: db}
}

// FindByIDForTenant finds a purchase request by ID within a tenant
func (r *GormPurchaseRequestRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*purchase.PurchaseRequest, error) {
	var request purchase.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByRequestNumber finds a purchase request by request number for a tenant
func (r *GormPurchaseRequestRepository) FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*purchase.PurchaseRequest, error) {
	var request purchase.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND request_number = ?", tenantID, requestNumber).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAllForTenant finds all purchase requests for a tenant with filtering
func (r *GormPurchaseRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*purchase.PurchaseRequest, error) {
	var requests []*purchase.PurchaseRequest
	query := r.db.WithContext(ctx).
		Model(&purchase.PurchaseRequest{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountForTenant counts purchase requests for a tenant matching the filter
func (r *GormPurchaseRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&purchase.PurchaseRequest{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateRequestNumber generates a unique request number for a tenant.
// Format: PR-YYYY-NNNNN (e.g., PR-2026-00001)
func (r *GormPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PR-%d-", year)

	var last purchase.PurchaseRequest
	err := r.db.WithContext(ctx).
		Model(&purchase.PurchaseRequest{}).
		Where("tenant_id = ? AND request_number LIKE ?", tenantID, prefix+"%").
		Order("request_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.RequestNumber != "" {
		parts := strings.Split(last.RequestNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Save creates or updates a purchase request together with its items
func (r *GormPurchaseRequestRepository) Save(ctx context.Context, request *purchase.PurchaseRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(request).Error; err != nil {
			return err
		}
		return savePurchaseRequestItems(tx, request)
	})
}

// SaveWithLock saves with optimistic locking against expectedVersion
func (r *GormPurchaseRequestRepository) SaveWithLock(ctx context.Context, request *purchase.PurchaseRequest, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&purchase.PurchaseRequest{}).
			Where("id = ? AND tenant_id = ? AND version = ?", request.ID, request.TenantID, expectedVersion).
			Updates(map[string]interface{}{
				"request_number":  request.RequestNumber,
				"requester":       request.Requester,
				"department":      request.Department,
				"justification":   request.Justification,
				"urgency_score":   request.UrgencyScore,
				"needed_by":       request.NeededBy,
				"estimated_total": request.EstimatedTotal,
				"status":          request.Status,
				"submitted_at":    request.SubmittedAt,
				"approved_by":     request.ApprovedBy,
				"approved_at":     request.ApprovedAt,
				"reject_reason":   request.RejectReason,
				"cancelled_at":    request.CancelledAt,
				"cancel_reason":   request.CancelReason,
				"version":         request.Version,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockFailure(tx, &purchase.PurchaseRequest{}, request.ID)
		}
		return savePurchaseRequestItems(tx, request)
	})
}

// DeleteForTenant deletes a purchase request and its items for a tenant
func (r *GormPurchaseRequestRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request purchase.PurchaseRequest
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&purchase.PurchaseRequestItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&purchase.PurchaseRequest{}, "tenant_id = ? AND id = ?", tenantID, id).Error
	})
}

func savePurchaseRequestItems(tx *gorm.DB, request *purchase.PurchaseRequest) error {
	currentItemIDs := make([]uuid.UUID, len(request.Items))
	for i, item := range request.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("request_id = ? AND id NOT IN ?", request.ID, currentItemIDs).
			Delete(&purchase.PurchaseRequestItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("request_id = ?", request.ID).
			Delete(&purchase.PurchaseRequestItem{}).Error; err != nil {
			return err
		}
	}

	for i := range request.Items {
		request.Items[i].RequestID = request.ID
		if err := tx.Save(&request.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormPurchaseRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PurchaseRequestSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormPurchaseRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR requester ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "department":
			query = query.Where("department = ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseRequestRepository implements PurchaseRequestRepository
var _ purchase.PurchaseRequestRepository = (*GormPurchaseRequestRepository)(nil)
