package service

import (
	"context"
	"log/slog"

	"skillchain/internal/credential/models"
	issuerModels "skillchain/internal/issuer/models"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/requestcontext"
)

// CredentialStore lists cataloged credentials.
type CredentialStore interface {
	ListByHolder(ctx context.Context, holder domain.Address) ([]*models.Credential, error)
}

// IssuerStore resolves issuer rows for the organization name join.
type IssuerStore interface {
	FindByAddresses(ctx context.Context, addresses []domain.Address) (map[domain.Address]*issuerModels.Issuer, error)
}

// Catalog lists a holder's credentials with issuer names filled in.
type Catalog struct {
	credentials CredentialStore
	issuers     IssuerStore
	logger      *slog.Logger
}

func NewCatalog(credentials CredentialStore, issuers IssuerStore, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{credentials: credentials, issuers: issuers, logger: logger}
}

// ListByHolder returns the holder's credentials. Issuers that are missing,
// unnamed, or fail to load are shown as issuerModels.UnknownIssuer.
func (c *Catalog) ListByHolder(ctx context.Context, holder domain.Address) ([]*models.Credential, error) {
	creds, err := c.credentials.ListByHolder(ctx, holder)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch credentials",
			"error", err,
			"holder", holder.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "INTERNAL_ERROR", "Failed to fetch credentials")
	}

	refs := make([]domain.Address, 0, len(creds))
	seen := make(map[domain.Address]struct{}, len(creds))
	for _, cred := range creds {
		if cred.IssuerRef == "" {
			continue
		}
		if _, ok := seen[cred.IssuerRef]; ok {
			continue
		}
		seen[cred.IssuerRef] = struct{}{}
		refs = append(refs, cred.IssuerRef)
	}

	var issuers map[domain.Address]*issuerModels.Issuer
	if len(refs) > 0 {
		issuers, err = c.issuers.FindByAddresses(ctx, refs)
		if err != nil {
			c.logger.WarnContext(ctx, "failed to fetch issuer data",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	for _, cred := range creds {
		cred.OrganizationName = issuers[cred.IssuerRef].DisplayName()
	}
	return creds, nil
}
