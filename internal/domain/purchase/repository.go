package purchase

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/shared"
)

// PurchaseRequestRepository defines the persistence contract for purchase requests
type PurchaseRequestRepository interface {
	FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*PurchaseRequest, error)
	FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*PurchaseRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*PurchaseRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, request *PurchaseRequest) error
	SaveWithLock(ctx context.Context, request *PurchaseRequest, expectedVersion int) error
	DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error
}
