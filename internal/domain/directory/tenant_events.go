package directory

import (
	"github.com/stocker/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated    = "tenant.created"
	EventTypeTenantSuspended  = "tenant.suspended"
	EventTypeTenantTerminated = "tenant.terminated"
)

// TenantCreatedEvent is published when a new tenant is provisioned
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
	}
}

// TenantSuspendedEvent is published when a tenant is suspended
type TenantSuspendedEvent struct {
	shared.BaseDomainEvent
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// NewTenantSuspendedEvent creates a new TenantSuspendedEvent
func NewTenantSuspendedEvent(tenant *Tenant, reason string) *TenantSuspendedEvent {
	return &TenantSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantSuspended, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Reason:          reason,
	}
}

// TenantTerminatedEvent is published when a tenant is permanently terminated
type TenantTerminatedEvent struct {
	shared.BaseDomainEvent
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// NewTenantTerminatedEvent creates a new TenantTerminatedEvent
func NewTenantTerminatedEvent(tenant *Tenant, reason string) *TenantTerminatedEvent {
	return &TenantTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantTerminated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Reason:          reason,
	}
}
