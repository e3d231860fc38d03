package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/abgdnv/inventory/internal/client/api"
	"github.com/abgdnv/inventory/internal/client/state"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// ListAction prints all products as a table.
func ListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := loaded(ctx, cmd)
	if err != nil {
		return err
	}
	return printProducts(appCtx.Out, appCtx.State.Products())
}

// AddAction submits a new product and prints the refreshed list.
func AddAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := newAppContext(cmd)
	if err != nil {
		return err
	}
	inventory := cmd.Int64("inventory")
	appCtx.State.SetForm(state.Form{Name: cmd.String("name"), Inventory: &inventory})
	if err := appCtx.App.SubmitAdd(ctx); err != nil {
		return err
	}
	return printProducts(appCtx.Out, appCtx.State.Products())
}

// UpdateAction overwrites a product's inventory and prints the refreshed list.
func UpdateAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := loaded(ctx, cmd)
	if err != nil {
		return err
	}
	id := cmd.String("id")
	product := api.Product{ID: id}
	for _, p := range appCtx.State.Products() {
		if p.ID == id {
			product = p
			break
		}
	}
	if err := appCtx.App.Modify(ctx, product, cmd.Int64("inventory")); err != nil {
		return err
	}
	return printProducts(appCtx.Out, appCtx.State.Products())
}

func printProducts(w io.Writer, products []api.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Inventory")
	for _, p := range products {
		if err := table.Append(p.ID, p.Name, strconv.FormatInt(p.Inventory, 10)); err != nil {
			return err
		}
	}
	return table.Render()
}
