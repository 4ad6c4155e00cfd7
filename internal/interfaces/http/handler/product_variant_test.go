package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/stocker/backend/internal/application/inventory"
	"github.com/stocker/backend/internal/domain/inventory"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/domain/shared/valueobject"
	"github.com/stocker/backend/internal/interfaces/http/middleware"
)

// MockProductVariantRepository implements inventory.ProductVariantRepository for testing
type MockProductVariantRepository struct {
	mock.Mock
}

func (m *MockProductVariantRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*inventory.ProductVariant, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.ProductVariant, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.ProductVariant, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductVariantRepository) ExistsSKUForOther(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductVariantRepository) ExistsBarcodeForOther(ctx context.Context, tenantID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, barcode, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductVariantRepository) Save(ctx context.Context, variant *inventory.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockProductVariantRepository) SaveWithLock(ctx context.Context, variant *inventory.ProductVariant, expectedVersion int) error {
	args := m.Called(ctx, variant, expectedVersion)
	return args.Error(0)
}

func (m *MockProductVariantRepository) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	args := m.Called(ctx, id, tenantID)
	return args.Error(0)
}

var _ inventory.ProductVariantRepository = (*MockProductVariantRepository)(nil)

func setupVariantTestRouter(tenantID uuid.UUID) (*gin.Engine, *MockProductVariantRepository, *ProductVariantHandler) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockProductVariantRepository)
	service := inventoryapp.NewProductVariantService(mockRepo)
	h := NewProductVariantHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID.String())
		c.Next()
	})

	return router, mockRepo, h
}

func createTestVariant(tenantID uuid.UUID, sku string, stock int) *inventory.ProductVariant {
	variant, _ := inventory.NewProductVariant(
		tenantID,
		uuid.New(),
		sku,
		"8690000000001",
		"Basic Tee",
		"M",
		"Black",
		valueobject.NewMoneyTRY(decimal.NewFromFloat(149.90)),
	)
	variant.ID = uuid.New()
	variant.StockQuantity = stock
	return variant
}

func TestProductVariantHandler_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should create variant", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.POST("/variants", h.Create)

		mockRepo.On("ExistsSKUForOther", mock.Anything, tenantID, "TSHIRT-M-BLK", uuid.Nil).Return(false, nil)
		mockRepo.On("ExistsBarcodeForOther", mock.Anything, tenantID, "8690000000001", uuid.Nil).Return(false, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.ProductVariant")).Return(nil)

		body, _ := json.Marshal(inventoryapp.CreateProductVariantRequest{
			ProductID: uuid.New(),
			SKU:       "TSHIRT-M-BLK",
			Barcode:   "8690000000001",
			Name:      "Basic Tee",
			Size:      "M",
			Color:     "Black",
			Price:     decimal.NewFromFloat(149.90),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/variants", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 409 for duplicate sku", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.POST("/variants", h.Create)

		mockRepo.On("ExistsSKUForOther", mock.Anything, tenantID, "TSHIRT-M-BLK", uuid.Nil).Return(true, nil)

		body, _ := json.Marshal(inventoryapp.CreateProductVariantRequest{
			ProductID: uuid.New(),
			SKU:       "TSHIRT-M-BLK",
			Name:      "Basic Tee",
			Price:     decimal.NewFromFloat(149.90),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/variants", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("should return 401 without tenant context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		mockRepo := new(MockProductVariantRepository)
		service := inventoryapp.NewProductVariantService(mockRepo)
		h := NewProductVariantHandler(service)

		router := gin.New()
		router.POST("/variants", h.Create)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/variants", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProductVariantHandler_ReceiveStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should increase stock", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.POST("/variants/:id/receive", h.ReceiveStock)

		variant := createTestVariant(tenantID, "TSHIRT-M-BLK", 10)
		mockRepo.On("FindByIDForTenant", mock.Anything, variant.ID, tenantID).Return(variant, nil)
		mockRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.ProductVariant"), variant.Version).Return(nil)

		body, _ := json.Marshal(inventoryapp.AdjustStockRequest{Quantity: 5})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/variants/"+variant.ID.String()+"/receive", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				StockQuantity int `json:"stock_quantity"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 15, resp.Data.StockQuantity)
	})
}

func TestProductVariantHandler_IssueStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should return 400 when stock is insufficient", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.POST("/variants/:id/issue", h.IssueStock)

		variant := createTestVariant(tenantID, "TSHIRT-M-BLK", 3)
		mockRepo.On("FindByIDForTenant", mock.Anything, variant.ID, tenantID).Return(variant, nil)

		body, _ := json.Marshal(inventoryapp.AdjustStockRequest{Quantity: 10})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/variants/"+variant.ID.String()+"/issue", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	})
}

func TestProductVariantHandler_Delete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("should reject deleting variant with stock", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.DELETE("/variants/:id", h.Delete)

		variant := createTestVariant(tenantID, "TSHIRT-M-BLK", 7)
		mockRepo.On("FindByIDForTenant", mock.Anything, variant.ID, tenantID).Return(variant, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/variants/"+variant.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should delete empty variant", func(t *testing.T) {
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.DELETE("/variants/:id", h.Delete)

		variant := createTestVariant(tenantID, "TSHIRT-M-BLK", 0)
		mockRepo.On("FindByIDForTenant", mock.Anything, variant.ID, tenantID).Return(variant, nil)
		mockRepo.On("DeleteForTenant", mock.Anything, variant.ID, tenantID).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/variants/"+variant.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestProductVariantHandler_List(t *testing.T) {
	t.Run("should default paging in meta when params are omitted", func(t *testing.T) {
		tenantID := uuid.New()
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.GET("/variants", h.List)

		variants := []*inventory.ProductVariant{createTestVariant(tenantID, "TEE-001", 5)}
		mockRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).Return(variants, nil)
		mockRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).Return(int64(42), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/variants", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Meta    struct {
				Total      int64 `json:"total"`
				Page       int   `json:"page"`
				PageSize   int   `json:"page_size"`
				TotalPages int   `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(42), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, shared.DefaultPageSize, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("should echo the clamped page size", func(t *testing.T) {
		tenantID := uuid.New()
		router, mockRepo, h := setupVariantTestRouter(tenantID)
		router.GET("/variants", h.List)

		mockRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).Return([]*inventory.ProductVariant{}, nil)
		mockRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/variants?page=3&page_size=500", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Meta struct {
				Page     int `json:"page"`
				PageSize int `json:"page_size"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Meta.Page)
		assert.Equal(t, shared.MaxPageSize, resp.Meta.PageSize)
	})
}
