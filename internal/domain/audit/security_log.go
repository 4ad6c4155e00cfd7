package audit

import (
	"strings"
	"time"

	"github.com/stocker/backend/internal/domain/shared"
)

// RiskLevel is the display bucket for a numeric risk score, the shared
// score bucket under its audit name.
type RiskLevel = shared.ScoreBucket

const (
	RiskLevelCritical = shared.ScoreBucketCritical
	RiskLevelHigh     = shared.ScoreBucketHigh
	RiskLevelMedium   = shared.ScoreBucketMedium
	RiskLevelLow      = shared.ScoreBucketLow
)

// RiskLevelForScore maps a 0-100 risk score to its bucket.
func RiskLevelForScore(score int) RiskLevel {
	return shared.BucketForScore(score)
}

// Scores at or above this are security events regardless of event name.
const securityEventScoreThreshold = 50

// HighRiskScoreThreshold marks events counted as high-risk in statistics.
const HighRiskScoreThreshold = 70

var securityEventKeywords = []string{
	"failed", "blocked", "invalid", "expired", "unauthorized", "suspicious", "attack", "brute",
}

// SecurityLog is one row of the master security audit log. The table is
// shared across all tenants and keyed by TenantCode - the code must come
// from the directory resolver, never from caller input. Rows are
// append-only; there are no mutation methods.
type SecurityLog struct {
	shared.BaseEntity
	TenantCode string    `gorm:"type:varchar(50);not null;index"`
	Event      string    `gorm:"type:varchar(100);not null;index"`
	Email      string    `gorm:"type:varchar(200)"`
	IPAddress  string    `gorm:"type:varchar(45)"`
	RiskScore  int       `gorm:"not null;default:0"`
	Blocked    bool      `gorm:"not null;default:false"`
	Metadata   string    `gorm:"type:text"`
	Timestamp  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SecurityLog) TableName() string {
	return "security_audit_logs"
}

// NewSecurityLog records a new audit log entry
func NewSecurityLog(tenantCode, event string, riskScore int) (*SecurityLog, error) {
	if strings.TrimSpace(tenantCode) == "" {
		return nil, shared.NewValidationError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if strings.TrimSpace(event) == "" {
		return nil, shared.NewValidationError("INVALID_EVENT", "Event name cannot be empty")
	}
	if riskScore < 0 || riskScore > 100 {
		return nil, shared.NewValidationError("INVALID_RISK_SCORE", "Risk score must be between 0 and 100")
	}

	return &SecurityLog{
		BaseEntity: shared.NewBaseEntity(),
		TenantCode: tenantCode,
		Event:      event,
		RiskScore:  riskScore,
		Timestamp:  time.Now(),
	}, nil
}

// RiskLevel returns the display bucket for this entry's risk score
func (l *SecurityLog) RiskLevel() RiskLevel {
	return RiskLevelForScore(l.RiskScore)
}

// IsSecurityEvent reports whether this entry counts as a security event:
// either the risk score is medium-plus or the event name carries one of
// the known security keywords.
func (l *SecurityLog) IsSecurityEvent() bool {
	if l.RiskScore >= securityEventScoreThreshold {
		return true
	}
	lower := strings.ToLower(l.Event)
	for _, keyword := range securityEventKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
