package inventory

import (
	"github.com/stocker/backend/internal/domain/shared"
)

const (
	AggregateTypeProductVariant = "ProductVariant"

	EventTypeProductVariantCreated = "product_variant.created"
	EventTypeStockChanged          = "product_variant.stock_changed"
)

// ProductVariantCreatedEvent is raised when a new variant is created
type ProductVariantCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductVariantCreatedEvent creates a new ProductVariantCreatedEvent
func NewProductVariantCreatedEvent(v *ProductVariant) *ProductVariantCreatedEvent {
	return &ProductVariantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductVariantCreated, AggregateTypeProductVariant, v.ID, v.TenantID),
		SKU:             v.SKU,
		Name:            v.Name,
	}
}

// StockChangedEvent is raised on every stock receive or issue.
// Delta is positive for receives and negative for issues.
type StockChangedEvent struct {
	shared.BaseDomainEvent
	SKU      string `json:"sku"`
	Delta    int    `json:"delta"`
	NewLevel int    `json:"new_level"`
}

// NewStockChangedEvent creates a new StockChangedEvent
func NewStockChangedEvent(v *ProductVariant, delta int) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeProductVariant, v.ID, v.TenantID),
		SKU:             v.SKU,
		Delta:           delta,
		NewLevel:        v.StockQuantity,
	}
}
