package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/inventory/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ProductCreatedEvent is emitted after a product has been inserted.
type ProductCreatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID string                 `json:"product_id"`
	Name      string                 `json:"name"`
	Inventory int64                  `json:"inventory"`
	CreatedAt time.Time              `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// InventoryUpdatedEvent is emitted after a product's inventory has been overwritten.
type InventoryUpdatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID string                 `json:"product_id"`
	Inventory int64                  `json:"inventory"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (e InventoryUpdatedEvent) Subject() string {
	return messaging.ProductInventoryUpdatedSubject
}

func (e InventoryUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
