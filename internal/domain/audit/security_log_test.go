package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLevelLow},
		{39, RiskLevelLow},
		{40, RiskLevelMedium},
		{59, RiskLevelMedium},
		{60, RiskLevelHigh},
		{79, RiskLevelHigh},
		{80, RiskLevelCritical},
		{100, RiskLevelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestNewSecurityLog(t *testing.T) {
	t.Run("creates entry with timestamp", func(t *testing.T) {
		log, err := NewSecurityLog("acme", "login_failed", 65)
		require.NoError(t, err)
		assert.Equal(t, "acme", log.TenantCode)
		assert.Equal(t, RiskLevelHigh, log.RiskLevel())
		assert.False(t, log.Timestamp.IsZero())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewSecurityLog("", "login_failed", 10)
		assert.Error(t, err)

		_, err = NewSecurityLog("acme", "", 10)
		assert.Error(t, err)

		_, err = NewSecurityLog("acme", "login_failed", 101)
		assert.Error(t, err)

		_, err = NewSecurityLog("acme", "login_failed", -1)
		assert.Error(t, err)
	})
}

func TestSecurityLog_IsSecurityEvent(t *testing.T) {
	tests := []struct {
		name  string
		event string
		score int
		want  bool
	}{
		{"high score plain event", "report_exported", 50, true},
		{"low score plain event", "report_exported", 49, false},
		{"failed keyword", "login_failed", 0, true},
		{"brute keyword", "Brute_Force_Detected", 0, true},
		{"unauthorized keyword", "unauthorized_access", 10, true},
		{"benign", "profile_updated", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &SecurityLog{Event: tt.event, RiskScore: tt.score}
			assert.Equal(t, tt.want, log.IsSecurityEvent())
		})
	}
}
