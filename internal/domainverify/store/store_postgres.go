package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillchain/internal/domainverify/models"
	"skillchain/pkg/platform/sentinel"
)

// PostgresStore persists verification attempts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const attemptColumns = `domain, issuer_address, last_attempt, last_success, attempts`

func (s *PostgresStore) Get(ctx context.Context, domain, issuer string) (*models.Attempt, error) {
	k := keyOf(domain, issuer)
	row := s.db.QueryRowContext(ctx, `
		SELECT `+attemptColumns+`
		FROM domain_verifications
		WHERE domain = $1 AND issuer_address = $2
	`, k.domain, k.issuer)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("verification attempt: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find verification attempt: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) RecordAttempt(ctx context.Context, domain, issuer string, at time.Time, success bool) (*models.Attempt, error) {
	k := keyOf(domain, issuer)
	var lastSuccess sql.NullTime
	if success {
		lastSuccess = sql.NullTime{Time: at, Valid: true}
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO domain_verifications (domain, issuer_address, last_attempt, last_success, attempts)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (domain, issuer_address) DO UPDATE SET
			last_attempt = EXCLUDED.last_attempt,
			last_success = COALESCE(EXCLUDED.last_success, domain_verifications.last_success),
			attempts = domain_verifications.attempts + 1
		RETURNING `+attemptColumns, k.domain, k.issuer, at, lastSuccess)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, fmt.Errorf("record verification attempt: %w", err)
	}
	return a, nil
}

func scanAttempt(row *sql.Row) (*models.Attempt, error) {
	var (
		a           models.Attempt
		lastSuccess sql.NullTime
	)
	if err := row.Scan(&a.Domain, &a.IssuerAddress, &a.LastAttempt, &lastSuccess, &a.Attempts); err != nil {
		return nil, err
	}
	if lastSuccess.Valid {
		t := lastSuccess.Time
		a.LastSuccess = &t
	}
	return &a, nil
}
