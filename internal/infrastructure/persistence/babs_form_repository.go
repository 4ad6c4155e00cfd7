package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/finance"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBaBsFormRepository implements finance.BaBsFormRepository using GORM
type GormBaBsFormRepository struct {
	db *gorm.DB
}

// NewGormBaBsFormRepository creates a new GormBaBsFormRepository
func NewGormBaBsFormRepository(db *gorm.DB) *GormBaBsFormRepository {
	return &GormBaBsFormRepository{db: db}
}

// FindByIDForTenant finds a form by ID within a tenant
func (r *GormBaBsFormRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*finance.BaBsForm, error) {
	var form finance.BaBsForm
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// FindByFormNumber finds a form by form number for a tenant
func (r *GormBaBsFormRepository) FindByFormNumber(ctx context.Context, tenantID uuid.UUID, formNumber string) (*finance.BaBsForm, error) {
	var form finance.BaBsForm
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND form_number = ?", tenantID, formNumber).
		First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// FindAllForTenant finds all forms for a tenant with filtering
func (r *GormBaBsFormRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.BaBsForm, error) {
	var forms []*finance.BaBsForm
	query := r.db.WithContext(ctx).
		Model(&finance.BaBsForm{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// CountForTenant counts forms for a tenant matching the filter
func (r *GormBaBsFormRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&finance.BaBsForm{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverdueForTenant finds forms whose filing deadline has passed and
// that are still in a state requiring filing
func (r *GormBaBsFormRepository) FindOverdueForTenant(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]*finance.BaBsForm, error) {
	var forms []*finance.BaBsForm
	if err := r.db.WithContext(ctx).
		Model(&finance.BaBsForm{}).
		Where("tenant_id = ? AND filing_deadline < ? AND status NOT IN ?", tenantID, asOf,
			[]finance.BaBsFormStatus{
				finance.BaBsFormStatusFiled,
				finance.BaBsFormStatusAccepted,
				finance.BaBsFormStatusCancelled,
			}).
		Order("filing_deadline ASC").
		Preload("Items").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// ExistsForPeriod checks whether a form of the given type already exists
// for the tenant and period
func (r *GormBaBsFormRepository) ExistsForPeriod(ctx context.Context, tenantID uuid.UUID, formType finance.BaBsFormType, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.BaBsForm{}).
		Where("tenant_id = ? AND form_type = ? AND period_year = ? AND period_month = ? AND is_correction = ?",
			tenantID, formType, year, month, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a form together with its items
func (r *GormBaBsFormRepository) Save(ctx context.Context, form *finance.BaBsForm) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(form).Error; err != nil {
			return err
		}
		return saveBaBsFormItems(tx, form)
	})
}

// SaveWithLock saves with optimistic locking against expectedVersion
func (r *GormBaBsFormRepository) SaveWithLock(ctx context.Context, form *finance.BaBsForm, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&finance.BaBsForm{}).
			Where("id = ? AND tenant_id = ? AND version = ?", form.ID, form.TenantID, expectedVersion).
			Updates(map[string]interface{}{
				"form_number":                form.FormNumber,
				"form_type":                  form.FormType,
				"period_year":                form.PeriodYear,
				"period_month":               form.PeriodMonth,
				"filing_deadline":            form.FilingDeadline,
				"tax_id":                     form.TaxID,
				"company_name":               form.CompanyName,
				"total_record_count":         form.TotalRecordCount,
				"total_amount_excluding_vat": form.TotalAmountExcludingVat,
				"total_vat":                  form.TotalVat,
				"total_amount_including_vat": form.TotalAmountIncludingVat,
				"status":                     form.Status,
				"is_correction":              form.IsCorrection,
				"corrected_form_id":          form.CorrectedFormID,
				"correction_sequence":        form.CorrectionSequence,
				"correction_reason":          form.CorrectionReason,
				"prepared_by":                form.PreparedBy,
				"prepared_at":                form.PreparedAt,
				"approved_by":                form.ApprovedBy,
				"approved_at":                form.ApprovedAt,
				"filed_at":                   form.FiledAt,
				"gib_submission_ref":         form.GibSubmissionRef,
				"gib_approval_number":        form.GibApprovalNumber,
				"reject_reason":              form.RejectReason,
				"cancelled_at":               form.CancelledAt,
				"cancel_reason":              form.CancelReason,
				"version":                    form.Version,
				"updated_at":                 time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockFailure(tx, &finance.BaBsForm{}, form.ID)
		}
		return saveBaBsFormItems(tx, form)
	})
}

// DeleteForTenant deletes a form and its items for a tenant
func (r *GormBaBsFormRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var form finance.BaBsForm
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&form).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&finance.BaBsFormItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&finance.BaBsForm{}, "tenant_id = ? AND id = ?", tenantID, id).Error
	})
}

// saveBaBsFormItems deletes removed items and saves the current set
func saveBaBsFormItems(tx *gorm.DB, form *finance.BaBsForm) error {
	currentItemIDs := make([]uuid.UUID, len(form.Items))
	for i, item := range form.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("form_id = ? AND id NOT IN ?", form.ID, currentItemIDs).
			Delete(&finance.BaBsFormItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("form_id = ?", form.ID).
			Delete(&finance.BaBsFormItem{}).Error; err != nil {
			return err
		}
	}

	for i := range form.Items {
		form.Items[i].FormID = form.ID
		if err := tx.Save(&form.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormBaBsFormRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, BaBsFormSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormBaBsFormRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("form_number ILIKE ? OR company_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "form_type":
			query = query.Where("form_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "period_year":
			query = query.Where("period_year = ?", value)
		case "period_month":
			query = query.Where("period_month = ?", value)
		}
	}

	return query
}

// Ensure GormBaBsFormRepository implements BaBsFormRepository
var _ finance.BaBsFormRepository = (*GormBaBsFormRepository)(nil)
