package audit

import (
	"context"

	"github.com/stocker/backend/internal/domain/shared"
)

// Statistics summarizes the audit log for one tenant code.
type Statistics struct {
	TotalEvents    int64
	BlockedEvents  int64
	HighRiskEvents int64
	ByRiskLevel    map[RiskLevel]int64
}

// SecurityLogRepository defines persistence for the master audit log.
// All queries are scoped by tenant code; implementations must never
// return rows for a code other than the one given.
type SecurityLogRepository interface {
	// Append stores a new log entry
	Append(ctx context.Context, log *SecurityLog) error

	// FindAllForTenantCode finds log entries for a tenant code with filtering
	FindAllForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) ([]SecurityLog, error)

	// CountForTenantCode counts log entries matching the filter (ignoring pagination)
	CountForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (int64, error)

	// StatisticsForTenantCode aggregates totals for a tenant code
	StatisticsForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (*Statistics, error)
}
