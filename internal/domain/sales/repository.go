package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/shared"
)

// SalesReturnRepository defines the persistence contract for sales returns
type SalesReturnRepository interface {
	FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*SalesReturn, error)
	FindByReturnNumber(ctx context.Context, tenantID uuid.UUID, returnNumber string) (*SalesReturn, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*SalesReturn, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	GenerateReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, ret *SalesReturn) error
	SaveWithLock(ctx context.Context, ret *SalesReturn, expectedVersion int) error
	DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error
}
