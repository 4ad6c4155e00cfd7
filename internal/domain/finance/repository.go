package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/shared"
)

// BaBsFormRepository defines the persistence contract for Ba-Bs forms
type BaBsFormRepository interface {
	FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*BaBsForm, error)
	FindByFormNumber(ctx context.Context, tenantID uuid.UUID, formNumber string) (*BaBsForm, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*BaBsForm, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindOverdueForTenant(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]*BaBsForm, error)
	ExistsForPeriod(ctx context.Context, tenantID uuid.UUID, formType BaBsFormType, year, month int) (bool, error)
	Save(ctx context.Context, form *BaBsForm) error
	SaveWithLock(ctx context.Context, form *BaBsForm, expectedVersion int) error
	DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error
}
