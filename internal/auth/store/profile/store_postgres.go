package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillchain/internal/auth/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// PostgresStore reads profiles from the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (address, email, created_at)
		VALUES ($1, NULLIF($2, ''), $3)
		ON CONFLICT (address) DO UPDATE SET email = EXCLUDED.email
	`, p.Address.String(), p.Email, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByAddress(ctx context.Context, address domain.Address) (*models.Profile, error) {
	var (
		addr  string
		email sql.NullString
		p     models.Profile
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT address, email, created_at FROM users WHERE address = $1
	`, address.String()).Scan(&addr, &email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p.Address = domain.Address(addr)
	p.Email = email.String
	return &p, nil
}
