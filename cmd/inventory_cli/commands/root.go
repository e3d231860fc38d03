// Package commands implements the inventory_cli subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abgdnv/inventory/internal/client/api"
	"github.com/abgdnv/inventory/internal/client/state"
	"github.com/abgdnv/inventory/internal/client/ui"
	"github.com/urfave/cli/v3"
)

const (
	defaultServer = "http://localhost:5000"
	serverEnv     = "INVENTORY_API_URL"
	defaultGrpc   = "localhost:50051"
	grpcEnv       = "INVENTORY_GRPC_ADDR"
)

// NewRootCommand builds the inventory_cli command tree writing results to stdout and alerts to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "inventory_cli",
		Usage:     "Inspect and modify the product inventory",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "inventory API base URL",
				Value:   defaultServer,
				Sources: cli.EnvVars(serverEnv),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log client errors to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all products",
				Action: ListAction,
			},
			{
				Name:  "add",
				Usage: "Add a new product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "product name", Required: true},
					&cli.Int64Flag{Name: "inventory", Usage: "initial inventory level", Required: true},
				},
				Action: AddAction,
			},
			{
				Name:  "update",
				Usage: "Overwrite the inventory of a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "product id", Required: true},
					&cli.Int64Flag{Name: "inventory", Usage: "new inventory level", Required: true},
				},
				Action: UpdateAction,
			},
			{
				Name:  "chart",
				Usage: "Render the inventory bar chart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file, '-' for stdout", Value: "inventory.png"},
					&cli.StringFlag{Name: "format", Usage: "png or svg", Value: "png"},
				},
				Action: ChartAction,
			},
			{
				Name:  "health",
				Usage: "Query the gRPC health service of the inventory service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "grpc", Usage: "gRPC health address", Value: defaultGrpc, Sources: cli.EnvVars(grpcEnv)},
					&cli.DurationFlag{Name: "timeout", Usage: "per-attempt timeout", Value: 2 * time.Second},
				},
				Action: HealthAction,
			},
		},
	}
}

// appContext bundles the client-side components a command works with.
type appContext struct {
	App   *ui.App
	State *state.Store
	Out   io.Writer
}

func newAppContext(cmd *cli.Command) (*appContext, error) {
	client, err := api.NewClient(cmd.String("server"))
	if err != nil {
		return nil, err
	}

	level := slog.LevelError + 4
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	errWriter := cmd.Root().ErrWriter
	logger := slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level}))

	alerter := ui.AlerterFunc(func(message string) {
		_, _ = fmt.Fprintln(errWriter, message)
	})
	store := state.New()
	return &appContext{
		App:   ui.NewApp(client, store, alerter, logger),
		State: store,
		Out:   cmd.Root().Writer,
	}, nil
}

// loaded creates the app context and fetches the product list.
func loaded(ctx context.Context, cmd *cli.Command) (*appContext, error) {
	appCtx, err := newAppContext(cmd)
	if err != nil {
		return nil, err
	}
	if err := appCtx.App.Load(ctx); err != nil {
		return nil, err
	}
	return appCtx, nil
}
