package inventory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/domain/shared/valueobject"
)

// ProductVariant is the aggregate root for a sellable variant of a
// product (a size/color combination with its own SKU and barcode).
// SKU and barcode are unique per tenant; uniqueness is checked against
// all other variants excluding the variant itself.
type ProductVariant struct {
	shared.TenantAggregateRoot
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	SKU           string            `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_tenant_sku,priority:2"`
	Barcode       string            `gorm:"type:varchar(100);index:idx_variant_tenant_barcode,priority:2"`
	Name          string            `gorm:"type:varchar(200);not null"`
	Size          string            `gorm:"type:varchar(50)"`
	Color         string            `gorm:"type:varchar(50)"`
	Price         valueobject.Money `gorm:"type:decimal(18,2);not null"`
	StockQuantity int               `gorm:"not null;default:0"`
	IsActive      bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a new product variant
func NewProductVariant(tenantID, productID uuid.UUID, sku, barcode, name, size, color string, price valueobject.Money) (*ProductVariant, error) {
	sku = strings.TrimSpace(strings.ToUpper(sku))
	if sku == "" {
		return nil, shared.NewValidationError("INVALID_SKU", "SKU cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Variant name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}

	variant := &ProductVariant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		SKU:                 sku,
		Barcode:             strings.TrimSpace(barcode),
		Name:                name,
		Size:                size,
		Color:               color,
		Price:               price,
		StockQuantity:       0,
		IsActive:            true,
	}

	variant.AddDomainEvent(NewProductVariantCreatedEvent(variant))

	return variant, nil
}

// Update changes the variant's descriptive fields and price.
// SKU and barcode uniqueness against other variants is the
// application service's responsibility before calling this.
func (v *ProductVariant) Update(sku, barcode, name, size, color string, price valueobject.Money) error {
	sku = strings.TrimSpace(strings.ToUpper(sku))
	if sku == "" {
		return shared.NewValidationError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("INVALID_NAME", "Variant name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}

	v.SKU = sku
	v.Barcode = strings.TrimSpace(barcode)
	v.Name = name
	v.Size = size
	v.Color = color
	v.Price = price
	v.Touch()
	v.IncrementVersion()

	return nil
}

// Receive adds stock to the variant
func (v *ProductVariant) Receive(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	v.StockQuantity += quantity
	v.Touch()
	v.IncrementVersion()

	v.AddDomainEvent(NewStockChangedEvent(v, quantity))

	return nil
}

// Issue removes stock from the variant. Stock can never go negative.
func (v *ProductVariant) Issue(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Issue quantity must be positive")
	}
	if quantity > v.StockQuantity {
		return shared.NewValidationError("INSUFFICIENT_STOCK", "Cannot issue more than the available stock")
	}

	v.StockQuantity -= quantity
	v.Touch()
	v.IncrementVersion()

	v.AddDomainEvent(NewStockChangedEvent(v, -quantity))

	return nil
}

// Activate marks the variant as sellable
func (v *ProductVariant) Activate() {
	if v.IsActive {
		return
	}
	v.IsActive = true
	v.Touch()
	v.IncrementVersion()
}

// Deactivate marks the variant as not sellable
func (v *ProductVariant) Deactivate() {
	if !v.IsActive {
		return
	}
	v.IsActive = false
	v.Touch()
	v.IncrementVersion()
}

// IsDeletable reports whether the variant may be hard-deleted.
// Variants holding stock must be issued down to zero first.
func (v *ProductVariant) IsDeletable() bool {
	return v.StockQuantity == 0
}
