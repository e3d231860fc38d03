// Package grpc provides gRPC clients used by the inventory tooling.
package grpc

import (
	"context"
	"fmt"

	"github.com/abgdnv/inventory/pkg/client/grpc/interceptors"
	"github.com/abgdnv/inventory/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthProbe queries the standard grpc.health.v1 service of a server.
type HealthProbe struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

// NewHealthProbe creates a probe for cfg.Addr. Every call is bounded by cfg.Timeout,
// retried on transient codes and guarded by a circuit breaker.
func NewHealthProbe(cfg config.GrpcClientConfig, res config.ResilienceConfig, opts ...grpc.DialOption) (*HealthProbe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(res.Retry),
			interceptors.NewCircuitBreaker("inventory-health-cb", res.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
		),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", cfg.Addr, err)
	}
	return &HealthProbe{conn: conn, client: healthpb.NewHealthClient(conn), service: cfg.Service}, nil
}

// Check returns the serving status reported for the configured service.
func (p *HealthProbe) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus(), nil
}

func (p *HealthProbe) Close() error {
	return p.conn.Close()
}
