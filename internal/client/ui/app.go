// Package ui drives the client flows: loading, adding and modifying products.
package ui

import (
	"context"
	"log/slog"

	"github.com/abgdnv/inventory/internal/client/api"
	"github.com/abgdnv/inventory/internal/client/state"
)

// Alert messages shown to the user.
const (
	AlertInvalidForm  = "Please fill in all fields correctly."
	AlertAddFailed    = "Failed to add product."
	AlertUpdateFailed = "Failed to update product."
	AlertFetchFailed  = "Failed to fetch products."
)

// ProductAPI is the subset of the API client the controller needs.
type ProductAPI interface {
	FetchAll(ctx context.Context) ([]api.Product, error)
	Add(ctx context.Context, name string, inventory int64) (*api.Product, error)
	UpdateInventory(ctx context.Context, id string, inventory int64) (*api.Product, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// App connects the API client to the client state. Failures are logged and alerted, never retried.
type App struct {
	api     ProductAPI
	state   *state.Store
	alerter Alerter
	logger  *slog.Logger
}

func NewApp(client ProductAPI, store *state.Store, alerter Alerter, logger *slog.Logger) *App {
	return &App{
		api:     client,
		state:   store,
		alerter: alerter,
		logger:  logger.With("component", "ui"),
	}
}

// Load fetches all products into the state. On failure the state is left unchanged.
func (a *App) Load(ctx context.Context) error {
	products, err := a.api.FetchAll(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Error fetching products", "error", err)
		a.alerter.Alert(AlertFetchFailed)
		return err
	}
	a.state.SetProducts(products)
	return nil
}

// SubmitAdd submits the add-product form, then resets it and reloads the list.
func (a *App) SubmitAdd(ctx context.Context) error {
	form := a.state.Form()
	if !form.Valid() {
		a.alerter.Alert(AlertInvalidForm)
		return ErrInvalidForm
	}
	if _, err := a.api.Add(ctx, form.Name, *form.Inventory); err != nil {
		a.logger.ErrorContext(ctx, "Error adding product", "name", form.Name, "error", err)
		a.alerter.Alert(AlertAddFailed)
		return err
	}
	a.state.ResetForm()
	return a.Load(ctx)
}

// Modify overwrites the inventory of product and reloads the list.
// The selection is cleared whether or not the update succeeds.
func (a *App) Modify(ctx context.Context, product api.Product, inventory int64) error {
	a.state.Select(product)
	_, err := a.api.UpdateInventory(ctx, product.ID, inventory)
	a.state.ClearSelection()
	if err != nil {
		a.logger.ErrorContext(ctx, "Error updating product", "ID", product.ID, "error", err)
		a.alerter.Alert(AlertUpdateFailed)
		return err
	}
	return a.Load(ctx)
}
