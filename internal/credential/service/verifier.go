package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"skillchain/internal/credential/canonical"
	"skillchain/internal/credential/models"
	"skillchain/internal/ledger"
	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/requestcontext"
)

const defaultBatchConcurrency = 4

// Verifier answers credential verification reads against the ledger.
type Verifier struct {
	ledger           ledger.Reader
	logger           *slog.Logger
	metrics          *metrics.Metrics
	batchConcurrency int
}

type Option func(*Verifier)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// WithBatchConcurrency bounds how many ids of a batch are read at once.
func WithBatchConcurrency(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.batchConcurrency = n
		}
	}
}

func NewVerifier(reader ledger.Reader, opts ...Option) *Verifier {
	v := &Verifier{
		ledger:           reader,
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// GetCredential reads a credential and enriches it with the issuer's ledger
// profile. A profile that cannot be read is left nil.
func (v *Verifier) GetCredential(ctx context.Context, id domain.CredentialID) (*models.VerifiedCredential, error) {
	record, err := v.readCredential(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := v.ledger.GetIssuerProfile(ctx, record.Issuer)
	if err != nil {
		v.logger.WarnContext(ctx, "could not fetch issuer profile",
			"error", err,
			"issuer", record.Issuer.String(),
			"credential_id", id.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		profile = nil
	}

	return &models.VerifiedCredential{ID: id, Record: record, IssuerProfile: profile}, nil
}

// VerifyBatch reads every id concurrently. Each id succeeds or fails on its
// own; results keep the request order.
func (v *Verifier) VerifyBatch(ctx context.Context, ids []models.RawID) *models.BatchResult {
	v.metrics.ObserveBatchSize(len(ids))
	items := make([]models.BatchItem, len(ids))

	var g errgroup.Group
	g.SetLimit(v.batchConcurrency)
	for i, raw := range ids {
		g.Go(func() error {
			items[i] = v.verifyOne(ctx, raw)
			return nil
		})
	}
	_ = g.Wait()

	res := &models.BatchResult{Items: items}
	for _, item := range items {
		if item.Success() {
			res.TotalVerified++
		}
	}
	return res
}

func (v *Verifier) verifyOne(ctx context.Context, raw models.RawID) models.BatchItem {
	item := models.BatchItem{RawID: raw}
	id, err := raw.CredentialID()
	if err != nil {
		item.Error = "Invalid credential ID"
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			item.Error = "Credential not found"
		}
		return item
	}

	record, err := v.ledger.GetCredential(ctx, id)
	switch {
	case err == nil:
		item.Credential = record
	case errors.Is(err, ledger.ErrCredentialNotFound):
		item.Error = "Credential not found"
	default:
		v.logger.WarnContext(ctx, "batch credential read failed",
			"error", err,
			"credential_id", id.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		item.Error = ledgerFailureMessage(err)
	}
	return item
}

func ledgerFailureMessage(err error) string {
	switch ledger.CategoryOf(err) {
	case ledger.CategoryTimeout:
		return "Ledger request timed out"
	case ledger.CategoryReverted:
		return "Ledger call reverted"
	case ledger.CategoryBadData:
		return "Ledger returned malformed data"
	default:
		return "Ledger unavailable"
	}
}

// VerifyData builds the canonical form of data and asks the ledger whether it
// matches the stored hash for id.
func (v *Verifier) VerifyData(ctx context.Context, id domain.CredentialID, data *canonical.CredentialData) (*models.DataVerification, error) {
	form, err := buildForm(data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	valid, err := v.ledger.VerifyCredentialData(ctx, id, form.Canonical)
	if err != nil {
		v.logger.ErrorContext(ctx, "credential data verification failed",
			"error", err,
			"credential_id", id.String(),
			"duration", time.Since(start),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "VERIFICATION_ERROR", "Failed to verify credential data")
	}

	return &models.DataVerification{ID: id, IsValid: valid, Form: form, Data: data}, nil
}

// Reconcile compares the local hash of data with the on-chain dataHash
// without a ledger verification call.
func (v *Verifier) Reconcile(ctx context.Context, id domain.CredentialID, data *canonical.CredentialData) (*models.Reconciliation, error) {
	form, err := buildForm(data)
	if err != nil {
		return nil, err
	}

	record, err := v.readCredential(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.Reconciliation{
		ID:              id,
		HashMatches:     record.DataHash == form.Hash,
		OnChainDataHash: record.DataHash.Hex(),
		LocalDataHash:   form.Hash.Hex(),
		Revoked:         record.Revoked,
	}, nil
}

func (v *Verifier) readCredential(ctx context.Context, id domain.CredentialID) (*ledger.CredentialRecord, error) {
	record, err := v.ledger.GetCredential(ctx, id)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, ledger.ErrCredentialNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "CREDENTIAL_NOT_FOUND", "Credential not found on blockchain")
	}
	v.logger.ErrorContext(ctx, "blockchain verification failed",
		"error", err,
		"credential_id", id.String(),
		"retryable", ledger.IsRetryable(err),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "BLOCKCHAIN_ERROR", "Failed to verify credential on blockchain")
}

func buildForm(data *canonical.CredentialData) (*canonical.Form, error) {
	if data == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "credentialData is required")
	}
	form, err := canonical.Build(data)
	if err != nil {
		if errors.Is(err, canonical.ErrInvalidDate) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "VALIDATION_ERROR", "issuedDate must be a valid date")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "VALIDATION_ERROR", "credentialData contains an invalid value")
	}
	return form, nil
}
