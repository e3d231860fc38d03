package store

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "INVENTORY_SKIP_INTEGRATION_TESTS"

// PgStoreSuite is a test suite for the PostgreSQL ProductStore implementation.
type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("inventory_system"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	// second run must be a no-op
	require.NoError(s.T(), Migrate(connStr), "Repeated migration should not fail")

	s.store = NewPgStore(s.dbPool)
}

func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

func (s *PgStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) TestCreateAndFind() {
	// when
	created, err := s.store.Create(s.ctx, "Widget", 10)

	// then
	require.NoError(s.T(), err)
	_, err = uuid.Parse(created.ID)
	require.NoError(s.T(), err, "ID should be a UUID")
	require.Equal(s.T(), "Widget", created.Name)
	require.Equal(s.T(), int64(10), created.Inventory)

	byID, err := s.store.FindByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), created, byID)

	byName, err := s.store.FindByName(s.ctx, "Widget")
	require.NoError(s.T(), err)
	require.Equal(s.T(), created, byName)
}

func (s *PgStoreSuite) TestCreate_Duplicate() {
	// given
	_, err := s.store.Create(s.ctx, "Widget", 10)
	require.NoError(s.T(), err)

	// when
	_, err = s.store.Create(s.ctx, "Widget", 99)

	// then
	require.ErrorIs(s.T(), err, perrors.ErrProductExists)
}

func (s *PgStoreSuite) TestCreate_ConcurrentSameName() {
	// given
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	// when
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Create(s.ctx, "Race", 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// then
	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(s.T(), err, perrors.ErrProductExists)
	}
	require.Equal(s.T(), 1, succeeded, "exactly one insert should win")
}

func (s *PgStoreSuite) TestFindAll_InsertionOrder() {
	// given
	for i, name := range []string{"A", "B", "C"} {
		_, err := s.store.Create(s.ctx, name, int64(i))
		require.NoError(s.T(), err)
	}

	// when
	products, err := s.store.FindAll(s.ctx)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), products, 3)
	require.Equal(s.T(), "A", products[0].Name)
	require.Equal(s.T(), "B", products[1].Name)
	require.Equal(s.T(), "C", products[2].Name)
}

func (s *PgStoreSuite) TestFindAll_Empty() {
	products, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), products)
}

func (s *PgStoreSuite) TestUpdateInventory() {
	// given
	created, err := s.store.Create(s.ctx, "Widget", 10)
	require.NoError(s.T(), err)

	// when
	updated, err := s.store.UpdateInventory(s.ctx, created.ID, -3)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(-3), updated.Inventory)
	require.Equal(s.T(), created.Name, updated.Name)
}

func (s *PgStoreSuite) TestNotFound() {
	testCases := []struct {
		name string
		id   string
	}{
		{name: "unknown UUID", id: uuid.NewString()},
		{name: "malformed ID", id: "not-a-uuid"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.store.FindByID(s.ctx, tc.id)
			require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)

			_, err = s.store.UpdateInventory(s.ctx, tc.id, 1)
			require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
		})
	}

	_, err := s.store.FindByName(s.ctx, "missing")
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *PgStoreSuite) TestPing() {
	require.NoError(s.T(), s.store.Ping(s.ctx))
}
