package persistence

import (
	"context"

	"github.com/stocker/backend/internal/domain/audit"
	"github.com/stocker/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSecurityLogRepository implements audit.SecurityLogRepository using GORM.
// The table is shared across tenants; every query starts from the
// tenant_code predicate so no row ever crosses tenants.
type GormSecurityLogRepository struct {
	db *gorm.DB
}

// NewGormSecurityLogRepository creates a new GormSecurityLogRepository
func NewGormSecurityLogRepository(db *gorm.DB) *GormSecurityLogRepository {
	return &GormSecurityLogRepository{db: db}
}

// Append stores a new log entry
func (r *GormSecurityLogRepository) Append(ctx context.Context, log *audit.SecurityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindAllForTenantCode finds log entries for a tenant code with filtering
func (r *GormSecurityLogRepository) FindAllForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) ([]audit.SecurityLog, error) {
	var logs []audit.SecurityLog
	query := r.db.WithContext(ctx).
		Model(&audit.SecurityLog{}).
		Where("tenant_code = ?", tenantCode)
	query = r.applyFilter(query, filter)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// CountForTenantCode counts log entries matching the filter (ignoring pagination)
func (r *GormSecurityLogRepository) CountForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&audit.SecurityLog{}).
		Where("tenant_code = ?", tenantCode)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// StatisticsForTenantCode aggregates totals for a tenant code
func (r *GormSecurityLogRepository) StatisticsForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (*audit.Statistics, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&audit.SecurityLog{}).
			Where("tenant_code = ?", tenantCode)
		return r.applyFilterWithoutPagination(q, filter)
	}

	stats := &audit.Statistics{
		ByRiskLevel: make(map[audit.RiskLevel]int64),
	}

	if err := base().Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := base().Where("blocked = ?", true).Count(&stats.BlockedEvents).Error; err != nil {
		return nil, err
	}
	if err := base().Where("risk_score >= ?", audit.HighRiskScoreThreshold).Count(&stats.HighRiskEvents).Error; err != nil {
		return nil, err
	}

	// Bucket boundaries mirror audit.RiskLevelForScore
	buckets := []struct {
		level audit.RiskLevel
		cond  string
		args  []interface{}
	}{
		{audit.RiskLevelCritical, "risk_score >= ?", []interface{}{80}},
		{audit.RiskLevelHigh, "risk_score >= ? AND risk_score < ?", []interface{}{60, 80}},
		{audit.RiskLevelMedium, "risk_score >= ? AND risk_score < ?", []interface{}{40, 60}},
		{audit.RiskLevelLow, "risk_score < ?", []interface{}{40}},
	}
	for _, b := range buckets {
		var count int64
		if err := base().Where(b.cond, b.args...).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ByRiskLevel[b.level] = count
	}

	return stats, nil
}

func (r *GormSecurityLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, SecurityLogSortFields, "timestamp")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	return query
}

func (r *GormSecurityLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("event ILIKE ? OR email ILIKE ? OR ip_address ILIKE ?",
			pattern, pattern, pattern)
	}

	if filter.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("timestamp <= ?", *filter.DateTo)
	}

	for key, value := range filter.Filters {
		switch key {
		case "event":
			query = query.Where("event = ?", value)
		case "blocked":
			query = query.Where("blocked = ?", value)
		case "min_risk_score":
			query = query.Where("risk_score >= ?", value)
		case "max_risk_score":
			query = query.Where("risk_score <= ?", value)
		}
	}

	return query
}

// Ensure GormSecurityLogRepository implements SecurityLogRepository
var _ audit.SecurityLogRepository = (*GormSecurityLogRepository)(nil)
