package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var _ ProductStore = (*PgStore)(nil)

const (
	selectProducts = `SELECT id::text, name, inventory FROM products`

	findAllQuery    = selectProducts + ` ORDER BY created_at, id`
	findByIDQuery   = selectProducts + ` WHERE id = $1`
	findByNameQuery = selectProducts + ` WHERE name = $1`

	createQuery = `INSERT INTO products (name, inventory) VALUES ($1, $2)
		RETURNING id::text, name, inventory`

	updateInventoryQuery = `UPDATE products SET inventory = $2 WHERE id = $1
		RETURNING id::text, name, inventory`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, unavailable("find all products", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, unavailable("scan products", err)
	}
	return products, nil
}

func (p *PgStore) FindByID(ctx context.Context, id string) (*Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("malformed product ID %q: %w", id, perrors.ErrProductNotFound)
	}
	return p.queryOne(ctx, "find product by ID", findByIDQuery, pid.String())
}

func (p *PgStore) FindByName(ctx context.Context, name string) (*Product, error) {
	return p.queryOne(ctx, "find product by name", findByNameQuery, name)
}

// Create inserts a new product. The products_name_unique constraint rejects duplicates.
func (p *PgStore) Create(ctx context.Context, name string, inventory int64) (*Product, error) {
	rows, err := p.db.Query(ctx, createQuery, name, inventory)
	if err != nil {
		return nil, unavailable("create product", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, perrors.ErrProductExists
		}
		return nil, unavailable("create product", err)
	}
	return &product, nil
}

func (p *PgStore) UpdateInventory(ctx context.Context, id string, inventory int64) (*Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("malformed product ID %q: %w", id, perrors.ErrProductNotFound)
	}
	return p.queryOne(ctx, "update product inventory", updateInventoryQuery, pid.String(), inventory)
}

func (p *PgStore) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return unavailable("ping PostgreSQL", err)
	}
	return nil
}

func (p *PgStore) queryOne(ctx context.Context, op, query string, args ...any) (*Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, unavailable(op, err)
	}
	return &product, nil
}

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Inventory)
	return p, err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
