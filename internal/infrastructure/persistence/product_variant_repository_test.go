package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stocker/backend/internal/domain/inventory"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductVariantTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.ProductVariant{})
	require.NoError(t, err)

	return db
}

func createTestVariant(t *testing.T, tenantID uuid.UUID, sku, barcode string) *inventory.ProductVariant {
	t.Helper()

	variant, err := inventory.NewProductVariant(tenantID, uuid.New(), sku, barcode, "Basic Tee", "M", "Black",
		valueobject.NewMoneyTRYFromFloat(199.90))
	require.NoError(t, err)
	return variant
}

func TestGormProductVariantRepository_SaveAndFind(t *testing.T) {
	db := setupProductVariantTestDB(t)
	repo := NewGormProductVariantRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves and finds by ID", func(t *testing.T) {
		variant := createTestVariant(t, tenantID, "TEE-M-BLK", "8690000000017")

		require.NoError(t, repo.Save(ctx, variant))

		found, err := repo.FindByIDForTenant(ctx, variant.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "TEE-M-BLK", found.SKU)
		assert.Equal(t, "Basic Tee", found.Name)
		assert.True(t, found.IsActive)
	})

	t.Run("finds by SKU", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, tenantID, "TEE-M-BLK")
		require.NoError(t, err)
		assert.Equal(t, "8690000000017", found.Barcode)
	})

	t.Run("scopes by tenant", func(t *testing.T) {
		_, err := repo.FindBySKU(ctx, uuid.New(), "TEE-M-BLK")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductVariantRepository_Uniqueness(t *testing.T) {
	db := setupProductVariantTestDB(t)
	repo := NewGormProductVariantRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	variant := createTestVariant(t, tenantID, "TEE-L-BLK", "8690000000024")
	require.NoError(t, repo.Save(ctx, variant))

	t.Run("detects SKU collisions", func(t *testing.T) {
		exists, err := repo.ExistsSKUForOther(ctx, tenantID, "TEE-L-BLK", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsSKUForOther(ctx, tenantID, "TEE-XL-BLK", uuid.Nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("excludes the variant itself", func(t *testing.T) {
		exists, err := repo.ExistsSKUForOther(ctx, tenantID, "TEE-L-BLK", variant.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("detects barcode collisions", func(t *testing.T) {
		exists, err := repo.ExistsBarcodeForOther(ctx, tenantID, "8690000000024", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBarcodeForOther(ctx, tenantID, "8690000000024", variant.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("scopes uniqueness to the tenant", func(t *testing.T) {
		exists, err := repo.ExistsSKUForOther(ctx, uuid.New(), "TEE-L-BLK", uuid.Nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormProductVariantRepository_FindAllForTenant(t *testing.T) {
	db := setupProductVariantTestDB(t)
	repo := NewGormProductVariantRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	active := createTestVariant(t, tenantID, "TEE-S-RED", "8690000000031")
	require.NoError(t, repo.Save(ctx, active))

	inactive := createTestVariant(t, tenantID, "TEE-S-BLU", "8690000000048")
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("filters by active flag", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["is_active"] = true

		variants, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.Equal(t, "TEE-S-RED", variants[0].SKU)
	})

	t.Run("filters by product", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = active.ProductID

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormProductVariantRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("persists stock movement", func(t *testing.T) {
		db := setupProductVariantTestDB(t)
		repo := NewGormProductVariantRepository(db)
		tenantID := uuid.New()

		variant := createTestVariant(t, tenantID, "TEE-M-GRN", "8690000000055")
		require.NoError(t, repo.Save(ctx, variant))

		expectedVersion := variant.Version
		require.NoError(t, variant.Receive(25))
		variant.IncrementVersion()

		require.NoError(t, repo.SaveWithLock(ctx, variant, expectedVersion))

		found, err := repo.FindByIDForTenant(ctx, variant.ID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 25, found.StockQuantity)
		assert.Equal(t, expectedVersion+1, found.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		db := setupProductVariantTestDB(t)
		repo := NewGormProductVariantRepository(db)
		tenantID := uuid.New()

		variant := createTestVariant(t, tenantID, "TEE-M-YLW", "8690000000062")
		require.NoError(t, repo.Save(ctx, variant))

		err := repo.SaveWithLock(ctx, variant, variant.Version+4)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("returns ErrNotFound for missing variant", func(t *testing.T) {
		db := setupProductVariantTestDB(t)
		repo := NewGormProductVariantRepository(db)

		variant := createTestVariant(t, uuid.New(), "TEE-M-PRP", "8690000000079")
		err := repo.SaveWithLock(ctx, variant, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductVariantRepository_DeleteForTenant(t *testing.T) {
	db := setupProductVariantTestDB(t)
	repo := NewGormProductVariantRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	variant := createTestVariant(t, tenantID, "TEE-M-WHT", "8690000000086")
	require.NoError(t, repo.Save(ctx, variant))

	require.NoError(t, repo.DeleteForTenant(ctx, variant.ID, tenantID))

	_, err := repo.FindByIDForTenant(ctx, variant.ID, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.DeleteForTenant(ctx, uuid.New(), tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
