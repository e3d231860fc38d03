package commands

import (
	"context"
	"fmt"

	grpcclient "github.com/abgdnv/inventory/pkg/client/grpc"
	"github.com/abgdnv/inventory/pkg/config"
	"github.com/urfave/cli/v3"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthAction prints the serving status of the inventory service and fails unless it is SERVING.
func HealthAction(ctx context.Context, cmd *cli.Command) error {
	probe, err := grpcclient.NewHealthProbe(
		config.GrpcClientConfig{Addr: cmd.String("grpc"), Timeout: cmd.Duration("timeout")},
		config.DefaultResilience(),
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = probe.Close()
	}()

	status, err := probe.Check(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.Root().Writer, status.String())
	if status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("inventory service is %s", status)
	}
	return nil
}
