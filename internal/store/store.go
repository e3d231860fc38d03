// Package store provides the product persistence layer.
package store

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/inventory/internal/errors"
)

// Product is a persisted product record.
type Product struct {
	ID        string
	Name      string
	Inventory int64
}

// ProductStore abstracts the underlying data store (MongoDB or PostgreSQL).
// Any failure of the store itself is reported wrapped in ErrStoreUnavailable.
type ProductStore interface {
	// FindAll returns all products in store-defined order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID or the ID is malformed.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByName retrieves a single product by its name.
	// Returns ErrProductNotFound if no product has the given name.
	FindByName(ctx context.Context, name string) (*Product, error)

	// Create inserts a new product unless one with the same name exists.
	// Returns ErrProductExists if the name is already taken.
	Create(ctx context.Context, name string, inventory int64) (*Product, error)

	// UpdateInventory overwrites the inventory of a product and returns the updated record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateInventory(ctx context.Context, id string, inventory int64) (*Product, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// unavailable wraps a driver error so callers can match it with ErrStoreUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, perrors.ErrStoreUnavailable, err)
}
