package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Event names pushed to connected clients. Every publisher and every
// subscriber must use these constants; an ad hoc string that drifts from
// the vocabulary is silently never delivered.
const (
	EventTenantCreated    = "tenant.created"
	EventTenantSuspended  = "tenant.suspended"
	EventTenantTerminated = "tenant.terminated"

	EventFormCreated = "babs_form.created"
	EventFormFiled   = "babs_form.filed"

	EventRequestCreated   = "purchase_request.created"
	EventRequestSubmitted = "purchase_request.submitted"
	EventRequestApproved  = "purchase_request.approved"

	EventReturnCreated   = "sales_return.created"
	EventReturnCompleted = "sales_return.completed"

	EventVariantCreated = "product_variant.created"
	EventStockChanged   = "product_variant.stock_changed"

	EventSetupProgress = "setup.progress"
)

// GroupTenant returns the delivery group for all of a tenant's sessions
func GroupTenant(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant-%s", tenantID)
}

// GroupSetup returns the delivery group for a tenant's onboarding screen
func GroupSetup(tenantID uuid.UUID) string {
	return fmt.Sprintf("setup-%s", tenantID)
}
