package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/catalog"
	"github.com/kpraj/billbook/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	query := `
		SELECT id, name, unit_price
		FROM products
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product

	for rows.Next() {
		var (
			p     catalog.Product
			price int64
		)

		if err := rows.Scan(&p.ID, &p.Name, &price); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		p.UnitPrice = money.FromMinor(price)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `
		SELECT id, name, unit_price
		FROM products
		WHERE id = $1
	`

	var (
		p     catalog.Product
		price int64
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	p.UnitPrice = money.FromMinor(price)

	return &p, nil
}
