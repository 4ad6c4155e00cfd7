package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stocker/backend/internal/domain/audit"
	"github.com/stocker/backend/internal/domain/shared"
)

// MockSecurityLogRepository is a mock implementation of audit.SecurityLogRepository
type MockSecurityLogRepository struct {
	mock.Mock
}

func (m *MockSecurityLogRepository) Append(ctx context.Context, log *audit.SecurityLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSecurityLogRepository) FindAllForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) ([]audit.SecurityLog, error) {
	args := m.Called(ctx, tenantCode, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.SecurityLog), args.Error(1)
}

func (m *MockSecurityLogRepository) CountForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantCode, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSecurityLogRepository) StatisticsForTenantCode(ctx context.Context, tenantCode string, filter shared.Filter) (*audit.Statistics, error) {
	args := m.Called(ctx, tenantCode, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Statistics), args.Error(1)
}

// MockCodeResolver is a mock implementation of directory.CodeResolver
type MockCodeResolver struct {
	mock.Mock
}

func (m *MockCodeResolver) ResolveCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func TestSecurityLogServiceRecord(t *testing.T) {
	repo := new(MockSecurityLogRepository)
	resolver := new(MockCodeResolver)
	service := NewSecurityLogService(repo, resolver)
	tenantID := uuid.New()

	resolver.On("ResolveCode", mock.Anything, tenantID).Return("acme-market", nil)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*audit.SecurityLog")).Return(nil)

	resp, err := service.Record(context.Background(), tenantID, RecordSecurityEventRequest{
		Event:     "login_failed",
		Email:     "user@acme.example",
		IPAddress: "10.0.0.1",
		RiskScore: 80,
		Blocked:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, "acme-market", resp.TenantCode)
	assert.Equal(t, "Critical", resp.RiskLevel)
	assert.True(t, resp.IsSecurityEvent)
	repo.AssertExpectations(t)
	resolver.AssertExpectations(t)
}

func TestSecurityLogServiceRecordUnknownTenant(t *testing.T) {
	repo := new(MockSecurityLogRepository)
	resolver := new(MockCodeResolver)
	service := NewSecurityLogService(repo, resolver)
	tenantID := uuid.New()

	// The resolver error comes back untouched; an unknown tenant is
	// NotFound, never an empty success.
	resolver.On("ResolveCode", mock.Anything, tenantID).Return("", shared.ErrTenantNotFound)

	_, err := service.Record(context.Background(), tenantID, RecordSecurityEventRequest{
		Event:     "login_failed",
		RiskScore: 10,
	})

	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSecurityLogServiceListScopesByResolvedCode(t *testing.T) {
	repo := new(MockSecurityLogRepository)
	resolver := new(MockCodeResolver)
	service := NewSecurityLogService(repo, resolver)
	tenantID := uuid.New()

	entry, err := audit.NewSecurityLog("acme-market", "login_failed", 45)
	require.NoError(t, err)

	resolver.On("ResolveCode", mock.Anything, tenantID).Return("acme-market", nil)
	repo.On("FindAllForTenantCode", mock.Anything, "acme-market", mock.AnythingOfType("shared.Filter")).Return([]audit.SecurityLog{*entry}, nil)
	repo.On("CountForTenantCode", mock.Anything, "acme-market", mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	page, err := service.List(context.Background(), tenantID, SecurityLogListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, shared.DefaultPageSize, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Medium", page.Items[0].RiskLevel)
}

func TestSecurityLogServiceStatistics(t *testing.T) {
	repo := new(MockSecurityLogRepository)
	resolver := new(MockCodeResolver)
	service := NewSecurityLogService(repo, resolver)
	tenantID := uuid.New()

	resolver.On("ResolveCode", mock.Anything, tenantID).Return("acme-market", nil)
	repo.On("StatisticsForTenantCode", mock.Anything, "acme-market", mock.AnythingOfType("shared.Filter")).Return(&audit.Statistics{
		TotalEvents:    10,
		BlockedEvents:  3,
		HighRiskEvents: 2,
		ByRiskLevel: map[audit.RiskLevel]int64{
			audit.RiskLevelCritical: 1,
			audit.RiskLevelHigh:     1,
			audit.RiskLevelLow:      8,
		},
	}, nil)

	stats, err := service.Statistics(context.Background(), tenantID, SecurityLogListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalEvents)
	assert.Equal(t, int64(1), stats.ByRiskLevel["Critical"])
}
