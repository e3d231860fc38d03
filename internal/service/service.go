// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const meterName = "inventory-service"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products in store order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Add creates a product unless one with the same name already exists.
	// Returns ErrProductExists if the name is taken.
	Add(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// UpdateInventory overwrites the inventory of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateInventory(ctx context.Context, id string, inventory int64) (*ProductDto, error)

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository       store.ProductStore
	publisher        messaging.Publisher
	createdCounter   metric.Int64Counter
	inventoryCounter metric.Int64Counter
	now              func() time.Time
}

// NewService creates a new instance of ProductService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter(meterName)
	createdCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	inventoryCounter, err := meter.Int64Counter("inventory_updates", metric.WithDescription("Total number of inventory updates"))
	if err != nil {
		panic(fmt.Sprintf("failed to create inventory_updates counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repository:       repo,
		publisher:        publisher,
		createdCounter:   createdCounter,
		inventoryCounter: inventoryCounter,
		now:              time.Now,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Inventory int64  `json:"inventory"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Inventory is a pointer so that a missing field can be told apart from zero.
type ProductCreateDto struct {
	Name      string `json:"name"      validate:"required"`
	Inventory *int64 `json:"inventory" validate:"required"`
}

// InventoryUpdateDto represents the data transfer object for overwriting product inventory.
type InventoryUpdateDto struct {
	Inventory *int64 `json:"inventory" validate:"required"`
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs, nil
}

// Add creates a product. The name lookup rejects the common duplicate early,
// the store's uniqueness constraint settles concurrent adds of the same name.
func (s *Service) Add(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if product.Name == "" || product.Inventory == nil {
		return nil, perrors.ErrInvalidInput
	}

	_, err := s.repository.FindByName(ctx, product.Name)
	switch {
	case err == nil:
		return nil, perrors.ErrProductExists
	case !errors.Is(err, perrors.ErrProductNotFound):
		return nil, fmt.Errorf("failed to look up product %q: %w", product.Name, err)
	}

	created, err := s.repository.Create(ctx, product.Name, *product.Inventory)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.ProductCreatedEvent{
		Carrier:   carrier(ctx),
		ProductID: created.ID,
		Name:      created.Name,
		Inventory: created.Inventory,
		CreatedAt: s.now().UTC(),
	})
	s.createdCounter.Add(ctx, 1)

	return toDto(created), nil
}

// UpdateInventory overwrites the inventory of a product and returns the updated product.
func (s *Service) UpdateInventory(ctx context.Context, id string, inventory int64) (*ProductDto, error) {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	updated, err := s.repository.UpdateInventory(ctx, id, inventory)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory for product with ID %s: %w", id, err)
	}

	s.publish(ctx, events.InventoryUpdatedEvent{
		Carrier:   carrier(ctx),
		ProductID: updated.ID,
		Inventory: updated.Inventory,
		UpdatedAt: s.now().UTC(),
	})
	s.inventoryCounter.Add(ctx, 1)

	return toDto(updated), nil
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// publish never fails the caller: the mutation is already committed.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func carrier(ctx context.Context) propagation.MapCarrier {
	c := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, c)
	return c
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID,
		Name:      product.Name,
		Inventory: product.Inventory,
	}
}
