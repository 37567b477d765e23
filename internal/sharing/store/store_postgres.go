package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// PostgresStore persists share links in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	types *pgtype.Map
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, types: pgtype.NewMap()}
}

const linkColumns = `share_id, owner, credential_ids, description, created_at, expiry_date,
	is_active, access_count, max_access_count, last_accessed_at`

func (s *PostgresStore) Save(ctx context.Context, link *models.ShareLink) error {
	if link == nil || link.ShareID == "" {
		return fmt.Errorf("share id is required")
	}
	var limit sql.NullInt64
	if link.MaxAccessCount > 0 {
		limit = sql.NullInt64{Int64: int64(link.MaxAccessCount), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_links (`+linkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (share_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			credential_ids = EXCLUDED.credential_ids,
			description = EXCLUDED.description,
			expiry_date = EXCLUDED.expiry_date,
			is_active = EXCLUDED.is_active,
			access_count = EXCLUDED.access_count,
			max_access_count = EXCLUDED.max_access_count,
			last_accessed_at = EXCLUDED.last_accessed_at
	`,
		link.ShareID.String(), link.Owner.String(), link.CredentialIDs, link.Description, link.CreatedAt,
		link.ExpiryDate, link.IsActive, link.AccessCount, limit, link.LastAccessedAt,
	)
	if err != nil {
		return fmt.Errorf("save share link: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ShareID) (*models.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM shared_links WHERE share_id = $1`, id.String())
	link, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("share link %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find share link: %w", err)
	}
	return link, nil
}

// RecordAccess increments access_count in one statement that re-checks the
// active predicate, so concurrent accesses can never exceed the limit.
func (s *PostgresStore) RecordAccess(ctx context.Context, id domain.ShareID, now time.Time) (*models.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE shared_links
		SET access_count = access_count + 1, last_accessed_at = $2
		WHERE share_id = $1
			AND is_active
			AND (expiry_date IS NULL OR expiry_date > $2)
			AND (max_access_count IS NULL OR max_access_count <= 0 OR access_count < max_access_count)
		RETURNING `+linkColumns, id.String(), now)
	link, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("share link %s: %w", id, sentinel.ErrInvalidState)
		}
		return nil, fmt.Errorf("record share access: %w", err)
	}
	return link, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scan(row scanner) (*models.ShareLink, error) {
	var (
		link         models.ShareLink
		shareID      string
		owner        string
		credentialID []string
		expiry       sql.NullTime
		limit        sql.NullInt64
		lastAccessed sql.NullTime
	)
	if err := row.Scan(
		&shareID, &owner, s.types.SQLScanner(&credentialID), &link.Description, &link.CreatedAt, &expiry,
		&link.IsActive, &link.AccessCount, &limit, &lastAccessed,
	); err != nil {
		return nil, err
	}
	link.ShareID = domain.ShareID(shareID)
	link.Owner = domain.Address(owner)
	link.CredentialIDs = credentialID
	if expiry.Valid {
		t := expiry.Time
		link.ExpiryDate = &t
	}
	if limit.Valid {
		link.MaxAccessCount = int(limit.Int64)
	}
	if lastAccessed.Valid {
		t := lastAccessed.Time
		link.LastAccessedAt = &t
	}
	return &link, nil
}
