package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/audit"
	"github.com/stocker/backend/internal/domain/directory"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
)

// SecurityLogService handles the master security audit log. Callers
// address tenants by id; the service resolves the id to the tenant code
// through the directory resolver before touching the shared log table.
// Resolver failures are returned verbatim so an unknown tenant surfaces
// as NotFound, never as an empty result set.
type SecurityLogService struct {
	logRepo         audit.SecurityLogRepository
	codeResolver    directory.CodeResolver
	businessMetrics *telemetry.BusinessMetrics
}

// NewSecurityLogService creates a new SecurityLogService
func NewSecurityLogService(logRepo audit.SecurityLogRepository, codeResolver directory.CodeResolver) *SecurityLogService {
	return &SecurityLogService{
		logRepo:      logRepo,
		codeResolver: codeResolver,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SecurityLogService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Record appends a new audit log entry for a tenant
func (s *SecurityLogService) Record(ctx context.Context, tenantID uuid.UUID, req RecordSecurityEventRequest) (*SecurityLogResponse, error) {
	tenantCode, err := s.codeResolver.ResolveCode(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	log, err := audit.NewSecurityLog(tenantCode, req.Event, req.RiskScore)
	if err != nil {
		return nil, err
	}
	log.Email = req.Email
	log.IPAddress = req.IPAddress
	log.Blocked = req.Blocked
	log.Metadata = req.Metadata

	if err := s.logRepo.Append(ctx, log); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordAuditEvent(ctx, tenantCode, string(log.RiskLevel()), log.Blocked)
	}

	response := ToSecurityLogResponse(log, time.Now())
	return &response, nil
}

// List retrieves audit log entries for a tenant with filtering and pagination
func (s *SecurityLogService) List(ctx context.Context, tenantID uuid.UUID, filter SecurityLogListFilter) (shared.Paginated[SecurityLogResponse], error) {
	tenantCode, err := s.codeResolver.ResolveCode(ctx, tenantID)
	if err != nil {
		return shared.Paginated[SecurityLogResponse]{}, err
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Filters:  make(map[string]interface{}),
	}

	if filter.Event != "" {
		domainFilter.Filters["event"] = filter.Event
	}
	if filter.Blocked != nil {
		domainFilter.Filters["blocked"] = *filter.Blocked
	}
	if filter.MinRiskScore != nil {
		domainFilter.Filters["min_risk_score"] = *filter.MinRiskScore
	}
	if filter.MaxRiskScore != nil {
		domainFilter.Filters["max_risk_score"] = *filter.MaxRiskScore
	}

	domainFilter = domainFilter.Normalize()

	logs, err := s.logRepo.FindAllForTenantCode(ctx, tenantCode, domainFilter)
	if err != nil {
		return shared.Paginated[SecurityLogResponse]{}, err
	}

	total, err := s.logRepo.CountForTenantCode(ctx, tenantCode, domainFilter)
	if err != nil {
		return shared.Paginated[SecurityLogResponse]{}, err
	}

	return shared.NewPaginated(ToSecurityLogResponses(logs), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Statistics aggregates audit log totals for a tenant
func (s *SecurityLogService) Statistics(ctx context.Context, tenantID uuid.UUID, filter SecurityLogListFilter) (*StatisticsResponse, error) {
	tenantCode, err := s.codeResolver.ResolveCode(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	domainFilter := shared.Filter{
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Filters:  make(map[string]interface{}),
	}
	if filter.Event != "" {
		domainFilter.Filters["event"] = filter.Event
	}
	domainFilter = domainFilter.Normalize()

	stats, err := s.logRepo.StatisticsForTenantCode(ctx, tenantCode, domainFilter)
	if err != nil {
		return nil, err
	}

	response := ToStatisticsResponse(stats)
	return &response, nil
}
