package store

import (
	"context"
	"database/sql"
	"fmt"

	"skillchain/internal/credential/models"
	"skillchain/pkg/domain"
)

// PostgresStore persists cataloged credentials in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, cred *models.Credential) error {
	if cred == nil || cred.ID == "" {
		return fmt.Errorf("credential id is required")
	}
	var onChainID sql.NullInt64
	if cred.OnChainID != nil {
		onChainID = sql.NullInt64{Int64: int64(*cred.OnChainID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (
			id, holder, issuer_address, onchain_id, credential_name, description,
			issued_date, can_expire, expiry_date, skill_level, status,
			certificate_url, tx_hash, additional_notes
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			holder = EXCLUDED.holder,
			issuer_address = EXCLUDED.issuer_address,
			onchain_id = EXCLUDED.onchain_id,
			credential_name = EXCLUDED.credential_name,
			description = EXCLUDED.description,
			issued_date = EXCLUDED.issued_date,
			can_expire = EXCLUDED.can_expire,
			expiry_date = EXCLUDED.expiry_date,
			skill_level = EXCLUDED.skill_level,
			status = EXCLUDED.status,
			certificate_url = EXCLUDED.certificate_url,
			tx_hash = EXCLUDED.tx_hash,
			additional_notes = EXCLUDED.additional_notes
	`,
		cred.ID, cred.Holder.String(), cred.IssuerRef.String(), onChainID, cred.CredentialName, cred.Description,
		cred.IssuedDate, cred.CanExpire, cred.ExpiryDate, cred.SkillLevel, cred.Status,
		cred.CertificateURL, cred.TxHash, cred.AdditionalNotes,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByHolder(ctx context.Context, holder domain.Address) ([]*models.Credential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, holder, COALESCE(issuer_address, ''), onchain_id, credential_name, description,
			issued_date, can_expire, expiry_date, skill_level, status,
			certificate_url, tx_hash, additional_notes
		FROM credentials
		WHERE holder = $1
		ORDER BY id
	`, holder.String())
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		var (
			c          models.Credential
			holderAddr string
			issuerAddr string
			onChainID  sql.NullInt64
			issued     sql.NullTime
			expiry     sql.NullTime
		)
		if err := rows.Scan(
			&c.ID, &holderAddr, &issuerAddr, &onChainID, &c.CredentialName, &c.Description,
			&issued, &c.CanExpire, &expiry, &c.SkillLevel, &c.Status,
			&c.CertificateURL, &c.TxHash, &c.AdditionalNotes,
		); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		c.Holder = domain.Address(holderAddr)
		c.IssuerRef = domain.Address(issuerAddr)
		if onChainID.Valid {
			id := domain.CredentialID(onChainID.Int64)
			c.OnChainID = &id
		}
		if issued.Valid {
			c.IssuedDate = issued.Time
		}
		if expiry.Valid {
			t := expiry.Time
			c.ExpiryDate = &t
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}
