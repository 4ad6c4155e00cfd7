package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/shared"
)

// ProductVariantRepository defines the persistence contract for product variants
type ProductVariantRepository interface {
	FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*ProductVariant, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductVariant, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ProductVariant, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsSKUForOther reports whether another variant of the tenant
	// (any variant when excludeID is uuid.Nil) already uses the SKU.
	ExistsSKUForOther(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)
	// ExistsBarcodeForOther is the barcode counterpart of ExistsSKUForOther.
	ExistsBarcodeForOther(ctx context.Context, tenantID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, variant *ProductVariant) error
	SaveWithLock(ctx context.Context, variant *ProductVariant, expectedVersion int) error
	DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error
}
