package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant directory persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByCode finds a tenant by its unique code
	FindByCode(ctx context.Context, code string) (*Tenant, error)

	// FindAll finds all tenants matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Tenant, error)

	// Count counts tenants matching the filter (ignoring pagination)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks whether a tenant code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// SaveWithLock saves with optimistic locking; the write is rejected
	// with shared.ErrConcurrencyConflict when the stored version no
	// longer matches expectedVersion.
	SaveWithLock(ctx context.Context, tenant *Tenant, expectedVersion int) error
}

// CodeResolver resolves an opaque tenant identifier to the tenant code
// used as the scoping key by stores shared across tenants. Implementations
// must return shared.ErrTenantNotFound for unknown ids.
type CodeResolver interface {
	ResolveCode(ctx context.Context, tenantID uuid.UUID) (string, error)
}
