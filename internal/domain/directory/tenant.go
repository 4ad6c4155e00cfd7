package directory

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/stocker/backend/internal/domain/shared"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive     TenantStatus = "ACTIVE"
	TenantStatusSuspended  TenantStatus = "SUSPENDED"
	TenantStatusTerminated TenantStatus = "TERMINATED"
)

// IsValid checks if the status is a valid TenantStatus
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of TenantStatus
func (s TenantStatus) String() string {
	return string(s)
}

var tenantCodePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{2,49}$`)

// Tenant is the directory entry for an organization. Its Code is the
// scoping key used by stores that are shared across tenants (the security
// audit log keys rows by tenant code, not tenant id); downstream code must
// obtain the code through the resolver, never from caller input.
type Tenant struct {
	shared.BaseAggregateRoot
	Code            string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string       `gorm:"type:varchar(200);not null"`
	ContactEmail    string       `gorm:"type:varchar(200)"`
	Status          TenantStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	SuspendedAt     *time.Time
	SuspendReason   string `gorm:"type:varchar(500)"`
	TerminatedAt    *time.Time
	TerminateReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant provisions a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !tenantCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("INVALID_TENANT_CODE",
			"Tenant code must be 3-50 lowercase letters, digits or dashes and start with a letter")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TenantStatusActive,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Rename updates the tenant's display name
func (t *Tenant) Rename(name string) error {
	if t.Status == TenantStatusTerminated {
		return shared.NewConflictError("INVALID_STATE", "Cannot rename a terminated tenant")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}

	t.Name = name
	t.Touch()
	t.IncrementVersion()

	return nil
}

// SetContactEmail updates the tenant's contact email
func (t *Tenant) SetContactEmail(email string) error {
	if t.Status == TenantStatusTerminated {
		return shared.NewConflictError("INVALID_STATE", "Cannot update a terminated tenant")
	}

	t.ContactEmail = email
	t.Touch()
	t.IncrementVersion()

	return nil
}

// Suspend suspends an active tenant. Requires a reason.
func (t *Tenant) Suspend(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if t.Status != TenantStatusActive {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot suspend tenant in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TenantStatusSuspended
	t.SuspendedAt = &now
	t.SuspendReason = reason
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantSuspendedEvent(t, reason))

	return nil
}

// Reactivate returns a suspended tenant to active status
func (t *Tenant) Reactivate() error {
	if t.Status != TenantStatusSuspended {
		return shared.NewConflictError("INVALID_STATE",
			fmt.Sprintf("Cannot reactivate tenant in %s status", t.Status))
	}

	t.Status = TenantStatusActive
	t.SuspendedAt = nil
	t.SuspendReason = ""
	t.Touch()
	t.IncrementVersion()

	return nil
}

// Terminate permanently terminates a tenant. Terminal state.
func (t *Tenant) Terminate(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.ErrReasonRequired
	}
	if t.Status == TenantStatusTerminated {
		return shared.NewConflictError("INVALID_STATE", "Tenant is already terminated")
	}

	now := time.Now()
	t.Status = TenantStatusTerminated
	t.TerminatedAt = &now
	t.TerminateReason = reason
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantTerminatedEvent(t, reason))

	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
