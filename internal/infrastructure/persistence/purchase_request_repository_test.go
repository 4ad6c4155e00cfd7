package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocker/backend/internal/domain/purchase"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPurchaseRequestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&purchase.PurchaseRequest{}, &purchase.PurchaseRequestItem{})
	require.NoError(t, err)

	return db
}

func createTestPurchaseRequest(t *testing.T, tenantID uuid.UUID, requestNumber string) *purchase.PurchaseRequest {
	t.Helper()

	request, err := purchase.NewPurchaseRequest(tenantID, requestNumber, "Jane Doe", "procurement", 50, nil)
	require.NoError(t, err)
	return request
}

func TestGormPurchaseRequestRepository_SaveAndFind(t *testing.T) {
	db := setupPurchaseRequestTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves request with items", func(t *testing.T) {
		request := createTestPurchaseRequest(t, tenantID, "PR-2026-00001")
		_, err := request.AddItem("Laptop", "IT-001", "pcs", decimal.NewFromInt(5), decimal.NewFromInt(30000))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, request))

		found, err := repo.FindByIDForTenant(ctx, request.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "PR-2026-00001", found.RequestNumber)
		assert.Equal(t, "Jane Doe", found.Requester)
		require.Len(t, found.Items, 1)
		assert.True(t, found.EstimatedTotal.Equal(decimal.NewFromInt(150000)))
	})

	t.Run("finds by request number", func(t *testing.T) {
		found, err := repo.FindByRequestNumber(ctx, tenantID, "PR-2026-00001")
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)
	})

	t.Run("scopes by tenant", func(t *testing.T) {
		_, err := repo.FindByRequestNumber(ctx, uuid.New(), "PR-2026-00001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPurchaseRequestRepository_GenerateRequestNumber(t *testing.T) {
	db := setupPurchaseRequestTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	year := time.Now().Year()

	t.Run("starts at 00001 for empty tenant", func(t *testing.T) {
		number, err := repo.GenerateRequestNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PR-%d-00001", year), number)
	})

	t.Run("increments from the highest existing number", func(t *testing.T) {
		request := createTestPurchaseRequest(t, tenantID, fmt.Sprintf("PR-%d-00007", year))
		require.NoError(t, repo.Save(ctx, request))

		number, err := repo.GenerateRequestNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PR-%d-00008", year), number)
	})

	t.Run("sequences are independent per tenant", func(t *testing.T) {
		number, err := repo.GenerateRequestNumber(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PR-%d-00001", year), number)
	})
}

func TestGormPurchaseRequestRepository_FindAllForTenant(t *testing.T) {
	db := setupPurchaseRequestTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	draft := createTestPurchaseRequest(t, tenantID, "PR-2026-00010")
	require.NoError(t, repo.Save(ctx, draft))

	pending := createTestPurchaseRequest(t, tenantID, "PR-2026-00011")
	_, err := pending.AddItem("Monitor", "IT-002", "pcs", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, pending.Submit())
	require.NoError(t, repo.Save(ctx, pending))

	other, err := purchase.NewPurchaseRequest(tenantID, "PR-2026-00012", "John Roe", "finance", 20, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(purchase.PurchaseRequestStatusPending)

		requests, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "PR-2026-00011", requests[0].RequestNumber)
	})

	t.Run("filters by department", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["department"] = "finance"

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormPurchaseRequestRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("persists approval", func(t *testing.T) {
		db := setupPurchaseRequestTestDB(t)
		repo := NewGormPurchaseRequestRepository(db)
		tenantID := uuid.New()

		request := createTestPurchaseRequest(t, tenantID, "PR-2026-00020")
		_, err := request.AddItem("Desk", "FUR-001", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(4000))
		require.NoError(t, err)
		require.NoError(t, request.Submit())
		require.NoError(t, repo.Save(ctx, request))

		expectedVersion := request.Version
		require.NoError(t, request.Approve("manager"))
		request.IncrementVersion()

		require.NoError(t, repo.SaveWithLock(ctx, request, expectedVersion))

		found, err := repo.FindByIDForTenant(ctx, request.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, purchase.PurchaseRequestStatusApproved, found.Status)
		assert.Equal(t, "manager", found.ApprovedBy)
		assert.NotNil(t, found.ApprovedAt)
	})

	t.Run("removes items dropped from the aggregate", func(t *testing.T) {
		db := setupPurchaseRequestTestDB(t)
		repo := NewGormPurchaseRequestRepository(db)
		tenantID := uuid.New()

		request := createTestPurchaseRequest(t, tenantID, "PR-2026-00021")
		item, err := request.AddItem("Chair", "FUR-002", "pcs", decimal.NewFromInt(4), decimal.NewFromInt(1500))
		require.NoError(t, err)
		_, err = request.AddItem("Lamp", "FUR-003", "pcs", decimal.NewFromInt(2), decimal.NewFromInt(300))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, request))

		expectedVersion := request.Version
		require.NoError(t, request.RemoveItem(item.ID))
		request.IncrementVersion()
		require.NoError(t, repo.SaveWithLock(ctx, request, expectedVersion))

		found, err := repo.FindByIDForTenant(ctx, request.ID, tenantID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Lamp", found.Items[0].ProductName)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		db := setupPurchaseRequestTestDB(t)
		repo := NewGormPurchaseRequestRepository(db)
		tenantID := uuid.New()

		request := createTestPurchaseRequest(t, tenantID, "PR-2026-00022")
		require.NoError(t, repo.Save(ctx, request))

		err := repo.SaveWithLock(ctx, request, request.Version+3)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormPurchaseRequestRepository_DeleteForTenant(t *testing.T) {
	db := setupPurchaseRequestTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	request := createTestPurchaseRequest(t, tenantID, "PR-2026-00030")
	_, err := request.AddItem("Printer", "IT-003", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(7000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, request))

	require.NoError(t, repo.DeleteForTenant(ctx, request.ID, tenantID))

	_, err = repo.FindByIDForTenant(ctx, request.ID, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&purchase.PurchaseRequestItem{}).Where("request_id = ?", request.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}
