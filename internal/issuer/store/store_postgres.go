package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillchain/internal/issuer/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// PostgresStore persists issuers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const issuerColumns = `address, organization_name, domain, is_verified, verified_at, last_updated`

func (s *PostgresStore) Save(ctx context.Context, issuer *models.Issuer) error {
	if issuer == nil {
		return fmt.Errorf("issuer is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issuers (`+issuerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address) DO UPDATE SET
			organization_name = EXCLUDED.organization_name,
			domain = EXCLUDED.domain,
			is_verified = EXCLUDED.is_verified,
			verified_at = EXCLUDED.verified_at,
			last_updated = EXCLUDED.last_updated
	`, issuer.Address.String(), issuer.OrganizationName, issuer.Domain, issuer.IsVerified, issuer.VerifiedAt, issuer.LastUpdated)
	if err != nil {
		return fmt.Errorf("save issuer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByAddress(ctx context.Context, address domain.Address) (*models.Issuer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+issuerColumns+` FROM issuers WHERE address = $1`, address.String())
	issuer, err := scanIssuer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("issuer not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find issuer: %w", err)
	}
	return issuer, nil
}

func (s *PostgresStore) FindByAddresses(ctx context.Context, addresses []domain.Address) (map[domain.Address]*models.Issuer, error) {
	out := make(map[domain.Address]*models.Issuer, len(addresses))
	if len(addresses) == 0 {
		return out, nil
	}
	keys := make([]string, len(addresses))
	for i, a := range addresses {
		keys[i] = a.String()
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+issuerColumns+` FROM issuers WHERE address = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("find issuers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		issuer, err := scanIssuer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issuer: %w", err)
		}
		out[issuer.Address] = issuer
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issuers: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpsertVerificationStatus(ctx context.Context, status models.VerificationStatus) error {
	var verifiedAt sql.NullTime
	if status.IsVerified {
		verifiedAt = sql.NullTime{Time: status.VerifiedAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issuers (address, organization_name, domain, is_verified, verified_at, last_updated)
		VALUES ($1, '', $2, $3, $4, $5)
		ON CONFLICT (address) DO UPDATE SET
			domain = EXCLUDED.domain,
			is_verified = EXCLUDED.is_verified,
			verified_at = EXCLUDED.verified_at,
			last_updated = EXCLUDED.last_updated
	`, status.Address.String(), status.Domain, status.IsVerified, verifiedAt, status.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert issuer verification: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssuer(row scanner) (*models.Issuer, error) {
	var (
		issuer     models.Issuer
		address    string
		verifiedAt sql.NullTime
	)
	if err := row.Scan(&address, &issuer.OrganizationName, &issuer.Domain, &issuer.IsVerified, &verifiedAt, &issuer.LastUpdated); err != nil {
		return nil, err
	}
	issuer.Address = domain.Address(address)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		issuer.VerifiedAt = &t
	}
	return &issuer, nil
}
