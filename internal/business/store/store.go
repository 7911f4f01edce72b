package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kpraj/billbook/internal/business"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProfile(ctx context.Context) (*business.Profile, error) {
	query := `
		SELECT name, address, logo_url
		FROM business_profile
		ORDER BY created_at ASC
		LIMIT 1
	`

	var (
		p       business.Profile
		address sql.NullString
		logoURL sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query).Scan(&p.Name, &address, &logoURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, business.ErrNotFound
		}

		return nil, fmt.Errorf("getting business profile: %w", err)
	}

	p.Address = address.String
	p.LogoURL = logoURL.String

	return &p, nil
}
