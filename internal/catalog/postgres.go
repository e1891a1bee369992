package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore serves the product catalog from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			vehicle_kind TEXT,
			main_coverage TEXT,
			slug TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_active ON products (is_active) WHERE deleted_at IS NULL;`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}

	return seedDefaults(ctx, pool)
}

// seedDefaults inserts the default vehicle products on first run so a fresh
// database can serve comparisons immediately.
func seedDefaults(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range DefaultProducts() {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (name, category, vehicle_kind, main_coverage, slug, is_active)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
			 ON CONFLICT (slug) DO NOTHING`,
			p.Name, p.Category, p.VehicleKind, p.MainCoverage, p.Slug, p.IsActive,
		)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Slug, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	query := `SELECT id, name, category, COALESCE(vehicle_kind, ''), COALESCE(main_coverage, ''),
	                 slug, is_active, created_at, updated_at
	          FROM products
	          WHERE is_active AND deleted_at IS NULL`
	args := []any{}

	if filter.VehicleKind != "" {
		args = append(args, filter.VehicleKind)
		query += fmt.Sprintf(` AND (vehicle_kind IS NULL OR vehicle_kind = $%d)`, len(args))
	}
	if filter.MainCoverage != "" {
		args = append(args, "%"+strings.ToLower(filter.MainCoverage)+"%")
		query += fmt.Sprintf(` AND (main_coverage IS NULL OR LOWER(main_coverage) LIKE $%d)`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.VehicleKind, &p.MainCoverage,
			&p.Slug, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int) (Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, category, COALESCE(vehicle_kind, ''), COALESCE(main_coverage, ''),
		        slug, is_active, created_at, updated_at
		 FROM products
		 WHERE id = $1 AND is_active AND deleted_at IS NULL`,
		id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.VehicleKind, &p.MainCoverage,
		&p.Slug, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) Mode() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
