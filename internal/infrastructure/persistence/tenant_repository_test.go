package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/directory"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTenantTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&directory.Tenant{})
	require.NoError(t, err)

	return db
}

func createTestTenant(t *testing.T, code, name string) *directory.Tenant {
	t.Helper()

	tenant, err := directory.NewTenant(code, name)
	require.NoError(t, err)
	return tenant
}

func TestGormTenantRepository_SaveAndFind(t *testing.T) {
	db := setupTenantTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	t.Run("saves and finds by ID", func(t *testing.T) {
		tenant := createTestTenant(t, "acme", "Acme Corp")

		err := repo.Save(ctx, tenant)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, found.ID)
		assert.Equal(t, "acme", found.Code)
		assert.Equal(t, "Acme Corp", found.Name)
		assert.Equal(t, directory.TenantStatusActive, found.Status)
	})

	t.Run("returns ErrTenantNotFound for unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		assert.Nil(t, found)
		assert.ErrorIs(t, err, shared.ErrTenantNotFound)
	})
}

func TestGormTenantRepository_FindByCode(t *testing.T) {
	db := setupTenantTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, "globex", "Globex")
	require.NoError(t, repo.Save(ctx, tenant))

	t.Run("finds by exact code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "globex")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, found.ID)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "  GLOBEX  ")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, found.ID)
	})

	t.Run("returns ErrTenantNotFound for unknown code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "nonexistent")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, shared.ErrTenantNotFound)
	})
}

func TestGormTenantRepository_ExistsByCode(t *testing.T) {
	db := setupTenantTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, "initech", "Initech")
	require.NoError(t, repo.Save(ctx, tenant))

	exists, err := repo.ExistsByCode(ctx, "initech")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, "umbrella")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormTenantRepository_FindAll(t *testing.T) {
	db := setupTenantTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	active := createTestTenant(t, "alpha", "Alpha")
	require.NoError(t, repo.Save(ctx, active))

	suspended := createTestTenant(t, "beta", "Beta")
	require.NoError(t, suspended.Suspend("payment overdue"))
	require.NoError(t, repo.Save(ctx, suspended))

	t.Run("returns all tenants", func(t *testing.T) {
		filter := shared.DefaultFilter()
		tenants, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, tenants, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(directory.TenantStatusSuspended)

		tenants, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, "beta", tenants[0].Code)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("paginates results", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Page = 1
		filter.PageSize = 1

		tenants, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, tenants, 1)
	})
}

func TestGormTenantRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("saves when version matches", func(t *testing.T) {
		db := setupTenantTestDB(t)
		repo := NewGormTenantRepository(db)

		tenant := createTestTenant(t, "wayne", "Wayne Ent")
		require.NoError(t, repo.Save(ctx, tenant))

		expectedVersion := tenant.Version
		require.NoError(t, tenant.Rename("Wayne Enterprises"))
		tenant.IncrementVersion()

		err := repo.SaveWithLock(ctx, tenant, expectedVersion)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wayne Enterprises", found.Name)
		assert.Equal(t, expectedVersion+1, found.Version)
	})

	t.Run("returns ErrConcurrencyConflict on stale version", func(t *testing.T) {
		db := setupTenantTestDB(t)
		repo := NewGormTenantRepository(db)

		tenant := createTestTenant(t, "stark", "Stark Industries")
		require.NoError(t, repo.Save(ctx, tenant))

		tenant.IncrementVersion()
		err := repo.SaveWithLock(ctx, tenant, tenant.Version+10)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("returns ErrNotFound when row is missing", func(t *testing.T) {
		db := setupTenantTestDB(t)
		repo := NewGormTenantRepository(db)

		tenant := createTestTenant(t, "ghost", "Ghost Inc")
		err := repo.SaveWithLock(ctx, tenant, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
