package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// pingStore is a ProductStore whose Ping result can be switched at runtime
type pingStore struct {
	down atomic.Bool
}

func (p *pingStore) FindAll(context.Context) ([]store.Product, error) {
	return []store.Product{{ID: "p1", Name: "A", Inventory: 1}}, nil
}
func (p *pingStore) FindByID(context.Context, string) (*store.Product, error) {
	return nil, perrors.ErrProductNotFound
}
func (p *pingStore) FindByName(context.Context, string) (*store.Product, error) {
	return nil, perrors.ErrProductNotFound
}
func (p *pingStore) Create(_ context.Context, name string, inventory int64) (*store.Product, error) {
	return &store.Product{ID: "p2", Name: name, Inventory: inventory}, nil
}
func (p *pingStore) UpdateInventory(context.Context, string, int64) (*store.Product, error) {
	return nil, perrors.ErrProductNotFound
}
func (p *pingStore) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func newDeps(s store.ProductStore) *Dependencies {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return SetupDependencies(s, messaging.NoopPublisher{}, logger)
}

func Test_SetupHttpHandler_Routes(t *testing.T) {
	// given
	deps := newDeps(&pingStore{})
	deps.MetricsPath = "/metrics"
	deps.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	handler := SetupHttpHandler(deps)

	testCases := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{name: "list products", method: http.MethodGet, path: "/api/products/", code: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/healthz", code: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", code: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/products", code: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/products/", code: http.StatusMethodNotAllowed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			// then
			assert.Equal(t, tc.code, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
		})
	}
}

func Test_SetupHttpHandler_NoMetricsWhenDisabled(t *testing.T) {
	handler := SetupHttpHandler(newDeps(&pingStore{}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func Test_WatchHealth(t *testing.T) {
	// given
	s := &pingStore{}
	deps := newDeps(s)
	hs := health.NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		WatchHealth(ctx, deps, hs, 10*time.Millisecond)
		close(done)
	}()

	status := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	// then
	require.Eventually(t, func() bool { return status() == healthpb.HealthCheckResponse_SERVING }, time.Second, 5*time.Millisecond)

	// when the store goes away
	s.down.Store(true)
	require.Eventually(t, func() bool { return status() == healthpb.HealthCheckResponse_NOT_SERVING }, time.Second, 5*time.Millisecond)

	// when it comes back
	s.down.Store(false)
	require.Eventually(t, func() bool { return status() == healthpb.HealthCheckResponse_SERVING }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchHealth did not return after cancellation")
	}
}
