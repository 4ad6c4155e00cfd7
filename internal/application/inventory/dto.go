package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocker/backend/internal/domain/inventory"
)

// CreateProductVariantRequest represents a request to create a variant
type CreateProductVariantRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	SKU       string          `json:"sku" binding:"required,min=1,max=100"`
	Barcode   string          `json:"barcode" binding:"max=100"`
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Size      string          `json:"size" binding:"max=50"`
	Color     string          `json:"color" binding:"max=50"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// UpdateProductVariantRequest represents a request to update a variant
type UpdateProductVariantRequest struct {
	SKU     string          `json:"sku" binding:"required,min=1,max=100"`
	Barcode string          `json:"barcode" binding:"max=100"`
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Size    string          `json:"size" binding:"max=50"`
	Color   string          `json:"color" binding:"max=50"`
	Price   decimal.Decimal `json:"price" binding:"required"`
}

// AdjustStockRequest represents a stock receive or issue
type AdjustStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductVariantListFilter represents filter options for the variant list
type ProductVariantListFilter struct {
	Search    string     `form:"search"`
	ProductID *uuid.UUID `form:"product_id"`
	IsActive  *bool      `form:"is_active"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductVariantResponse represents a variant in API responses
type ProductVariantResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Size          string          `json:"size,omitempty"`
	Color         string          `json:"color,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductVariantResponse converts a domain variant to a response DTO
func ToProductVariantResponse(v *inventory.ProductVariant) ProductVariantResponse {
	return ProductVariantResponse{
		ID:            v.ID,
		TenantID:      v.TenantID,
		ProductID:     v.ProductID,
		SKU:           v.SKU,
		Barcode:       v.Barcode,
		Name:          v.Name,
		Size:          v.Size,
		Color:         v.Color,
		Price:         v.Price.Amount(),
		Currency:      string(v.Price.Currency()),
		StockQuantity: v.StockQuantity,
		IsActive:      v.IsActive,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// ToProductVariantResponses converts domain variants to response DTOs
func ToProductVariantResponses(variants []*inventory.ProductVariant) []ProductVariantResponse {
	responses := make([]ProductVariantResponse, 0, len(variants))
	for _, v := range variants {
		responses = append(responses, ToProductVariantResponse(v))
	}
	return responses
}
