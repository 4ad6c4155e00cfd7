package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/audit"
	"github.com/stocker/backend/internal/domain/shared"
)

// RecordSecurityEventRequest represents a request to append an audit log entry
type RecordSecurityEventRequest struct {
	Event     string `json:"event" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	IPAddress string `json:"ip_address" binding:"max=45"`
	RiskScore int    `json:"risk_score" binding:"min=0,max=100"`
	Blocked   bool   `json:"blocked"`
	Metadata  string `json:"metadata"`
}

// SecurityLogListFilter represents filter options for the audit log list
type SecurityLogListFilter struct {
	Search       string     `form:"search"`
	Event        string     `form:"event"`
	Blocked      *bool      `form:"blocked"`
	MinRiskScore *int       `form:"min_risk_score" binding:"omitempty,min=0,max=100"`
	MaxRiskScore *int       `form:"max_risk_score" binding:"omitempty,min=0,max=100"`
	DateFrom     *time.Time `form:"date_from"`
	DateTo       *time.Time `form:"date_to"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SecurityLogResponse represents an audit log entry in API responses
type SecurityLogResponse struct {
	ID              uuid.UUID `json:"id"`
	TenantCode      string    `json:"tenant_code"`
	Event           string    `json:"event"`
	Email           string    `json:"email,omitempty"`
	IPAddress       string    `json:"ip_address,omitempty"`
	RiskScore       int       `json:"risk_score"`
	RiskLevel       string    `json:"risk_level"`
	Blocked         bool      `json:"blocked"`
	IsSecurityEvent bool      `json:"is_security_event"`
	Metadata        string    `json:"metadata,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	TimeAgo         string    `json:"time_ago"`
}

// StatisticsResponse summarizes the audit log for one tenant
type StatisticsResponse struct {
	TotalEvents    int64            `json:"total_events"`
	BlockedEvents  int64            `json:"blocked_events"`
	HighRiskEvents int64            `json:"high_risk_events"`
	ByRiskLevel    map[string]int64 `json:"by_risk_level"`
}

// ToSecurityLogResponse converts a domain log entry to a response DTO
func ToSecurityLogResponse(log *audit.SecurityLog, now time.Time) SecurityLogResponse {
	return SecurityLogResponse{
		ID:              log.ID,
		TenantCode:      log.TenantCode,
		Event:           log.Event,
		Email:           log.Email,
		IPAddress:       log.IPAddress,
		RiskScore:       log.RiskScore,
		RiskLevel:       string(log.RiskLevel()),
		Blocked:         log.Blocked,
		IsSecurityEvent: log.IsSecurityEvent(),
		Metadata:        log.Metadata,
		Timestamp:       log.Timestamp,
		TimeAgo:         shared.TimeAgo(log.Timestamp, now),
	}
}

// ToSecurityLogResponses converts domain log entries to response DTOs
func ToSecurityLogResponses(logs []audit.SecurityLog) []SecurityLogResponse {
	now := time.Now()
	responses := make([]SecurityLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, ToSecurityLogResponse(&logs[i], now))
	}
	return responses
}

// ToStatisticsResponse converts domain statistics to a response DTO
func ToStatisticsResponse(stats *audit.Statistics) StatisticsResponse {
	byLevel := make(map[string]int64, len(stats.ByRiskLevel))
	for level, count := range stats.ByRiskLevel {
		byLevel[string(level)] = count
	}
	return StatisticsResponse{
		TotalEvents:    stats.TotalEvents,
		BlockedEvents:  stats.BlockedEvents,
		HighRiskEvents: stats.HighRiskEvents,
		ByRiskLevel:    byLevel,
	}
}
