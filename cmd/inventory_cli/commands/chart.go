package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/inventory/internal/client/api"
	"github.com/abgdnv/inventory/internal/client/chart"
	"github.com/urfave/cli/v3"
)

// ChartAction loads the product list and draws it as a bar chart.
func ChartAction(ctx context.Context, cmd *cli.Command) (err error) {
	format, err := chart.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	appCtx, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	var surface chart.Surface = chart.FileSurface{Path: out}
	if out == "-" {
		surface = chart.WriterSurface{W: appCtx.Out}
	}
	renderer := chart.NewRenderer(surface, format)
	defer func() { err = errors.Join(err, renderer.Close()) }()

	var renderErr error
	appCtx.State.Subscribe(func(products []api.Product) {
		renderErr = renderer.Render(products)
	})
	if err := appCtx.App.Load(ctx); err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}
	if !renderer.Live() {
		_, err := fmt.Fprintln(cmd.Root().ErrWriter, "No products to chart.")
		return err
	}
	if out != "-" {
		_, err := fmt.Fprintf(cmd.Root().ErrWriter, "Chart written to %s\n", out)
		return err
	}
	return nil
}
