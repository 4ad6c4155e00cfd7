package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocker/backend/internal/domain/sales"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSalesReturnTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&sales.SalesReturn{}, &sales.SalesReturnItem{})
	require.NoError(t, err)

	return db
}

func createTestSalesReturn(t *testing.T, tenantID uuid.UUID, returnNumber string) *sales.SalesReturn {
	t.Helper()

	ret, err := sales.NewSalesReturn(tenantID, returnNumber, uuid.New(), "Acme Retail", "damaged goods")
	require.NoError(t, err)
	return ret
}

func TestGormSalesReturnRepository_SaveAndFind(t *testing.T) {
	db := setupSalesReturnTestDB(t)
	repo := NewGormSalesReturnRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves return with items", func(t *testing.T) {
		ret := createTestSalesReturn(t, tenantID, "SR-2026-00001")
		_, err := ret.AddItem("T-Shirt", "TS-001", "damaged", decimal.NewFromInt(3), decimal.NewFromInt(250))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, ret))

		found, err := repo.FindByIDForTenant(ctx, ret.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "SR-2026-00001", found.ReturnNumber)
		assert.Equal(t, "Acme Retail", found.CustomerName)
		require.Len(t, found.Items, 1)
		assert.True(t, found.TotalRefund.Equal(decimal.NewFromInt(750)))
	})

	t.Run("finds by return number", func(t *testing.T) {
		found, err := repo.FindByReturnNumber(ctx, tenantID, "SR-2026-00001")
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)
	})

	t.Run("scopes by tenant", func(t *testing.T) {
		_, err := repo.FindByReturnNumber(ctx, uuid.New(), "SR-2026-00001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSalesReturnRepository_GenerateReturnNumber(t *testing.T) {
	db := setupSalesReturnTestDB(t)
	repo := NewGormSalesReturnRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	year := time.Now().Year()

	t.Run("starts at 00001 for empty tenant", func(t *testing.T) {
		number, err := repo.GenerateReturnNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("SR-%d-00001", year), number)
	})

	t.Run("increments from the highest existing number", func(t *testing.T) {
		ret := createTestSalesReturn(t, tenantID, fmt.Sprintf("SR-%d-00042", year))
		require.NoError(t, repo.Save(ctx, ret))

		number, err := repo.GenerateReturnNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("SR-%d-00043", year), number)
	})
}

func TestGormSalesReturnRepository_FindAllForTenant(t *testing.T) {
	db := setupSalesReturnTestDB(t)
	repo := NewGormSalesReturnRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()

	draft, err := sales.NewSalesReturn(tenantID, "SR-2026-00010", customerID, "Acme Retail", "wrong size")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, draft))

	submitted := createTestSalesReturn(t, tenantID, "SR-2026-00011")
	_, err = submitted.AddItem("Jacket", "JK-001", "unopened", decimal.NewFromInt(1), decimal.NewFromInt(1200))
	require.NoError(t, err)
	require.NoError(t, submitted.Submit())
	require.NoError(t, repo.Save(ctx, submitted))

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(sales.SalesReturnStatusSubmitted)

		returns, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, returns, 1)
		assert.Equal(t, "SR-2026-00011", returns[0].ReturnNumber)
	})

	t.Run("filters by customer", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["customer_id"] = customerID

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormSalesReturnRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("persists refund completion", func(t *testing.T) {
		db := setupSalesReturnTestDB(t)
		repo := NewGormSalesReturnRepository(db)
		tenantID := uuid.New()

		ret := createTestSalesReturn(t, tenantID, "SR-2026-00020")
		_, err := ret.AddItem("Shoes", "SH-001", "defective", decimal.NewFromInt(1), decimal.NewFromInt(900))
		require.NoError(t, err)
		require.NoError(t, ret.Submit())
		require.NoError(t, ret.Approve("supervisor"))
		require.NoError(t, repo.Save(ctx, ret))

		expectedVersion := ret.Version
		require.NoError(t, ret.Complete("REF-12345"))
		ret.IncrementVersion()

		require.NoError(t, repo.SaveWithLock(ctx, ret, expectedVersion))

		found, err := repo.FindByIDForTenant(ctx, ret.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, sales.SalesReturnStatusCompleted, found.Status)
		assert.Equal(t, "REF-12345", found.RefundRef)
		assert.NotNil(t, found.RefundIssuedAt)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		db := setupSalesReturnTestDB(t)
		repo := NewGormSalesReturnRepository(db)
		tenantID := uuid.New()

		ret := createTestSalesReturn(t, tenantID, "SR-2026-00021")
		require.NoError(t, repo.Save(ctx, ret))

		err := repo.SaveWithLock(ctx, ret, ret.Version+2)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormSalesReturnRepository_DeleteForTenant(t *testing.T) {
	db := setupSalesReturnTestDB(t)
	repo := NewGormSalesReturnRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	ret := createTestSalesReturn(t, tenantID, "SR-2026-00030")
	_, err := ret.AddItem("Hat", "HT-001", "unopened", decimal.NewFromInt(2), decimal.NewFromInt(150))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ret))

	require.NoError(t, repo.DeleteForTenant(ctx, ret.ID, tenantID))

	_, err = repo.FindByIDForTenant(ctx, ret.ID, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&sales.SalesReturnItem{}).Where("return_id = ?", ret.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}
