package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skillchain/internal/credential/canonical"
	"skillchain/internal/credential/models"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/httputil"
	"skillchain/pkg/requestcontext"
)

// Verifier defines the credential verification reads.
type Verifier interface {
	GetCredential(ctx context.Context, id domain.CredentialID) (*models.VerifiedCredential, error)
	VerifyBatch(ctx context.Context, ids []models.RawID) *models.BatchResult
	VerifyData(ctx context.Context, id domain.CredentialID, data *canonical.CredentialData) (*models.DataVerification, error)
	Reconcile(ctx context.Context, id domain.CredentialID, data *canonical.CredentialData) (*models.Reconciliation, error)
}

// Handler serves the public credential verification endpoints.
type Handler struct {
	verifier Verifier
	logger   *slog.Logger
}

func New(verifier Verifier, logger *slog.Logger) *Handler {
	return &Handler{verifier: verifier, logger: logger}
}

// Register registers the credential routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/credentials/verify-blockchain/{credentialId}", h.HandleVerifyBlockchain)
	r.Post("/credentials/verify-credential-data/{credentialId}", h.HandleVerifyCredentialData)
	r.Post("/credentials/reconcile/{credentialId}", h.HandleReconcile)
	r.Post("/credentials/verify-batch", h.HandleVerifyBatch)
}

// HandleVerifyBlockchain implements GET /credentials/verify-blockchain/{credentialId}.
func (h *Handler) HandleVerifyBlockchain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.credentialID(w, r)
	if !ok {
		return
	}

	res, err := h.verifier.GetCredential(ctx, id)
	if err != nil {
		h.fail(ctx, w, "credential verification failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewVerifiedCredentialResponse(res, requestcontext.Now(ctx)))
}

// HandleVerifyCredentialData implements POST /credentials/verify-credential-data/{credentialId}.
//
// Input: { "credentialData": { "credentialName": "...", "issuedDate": "...", ... } }
func (h *Handler) HandleVerifyCredentialData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CredentialDataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res, err := h.verifier.VerifyData(ctx, id, req.Parsed())
	if err != nil {
		h.fail(ctx, w, "credential data verification failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewVerifyDataResponse(res, requestcontext.Now(ctx)))
}

// HandleReconcile implements POST /credentials/reconcile/{credentialId}.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.credentialID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CredentialDataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res, err := h.verifier.Reconcile(ctx, id, req.Parsed())
	if err != nil {
		h.fail(ctx, w, "credential reconciliation failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewReconcileResponse(res, requestcontext.Now(ctx)))
}

// HandleVerifyBatch implements POST /credentials/verify-batch.
//
// Input: { "credentialIds": [1, "2", 3] }
func (h *Handler) HandleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.VerifyBatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res := h.verifier.VerifyBatch(ctx, req.CredentialIDs)
	httputil.WriteJSON(w, http.StatusOK, models.NewVerifyBatchResponse(res, requestcontext.Now(ctx)))
}

func (h *Handler) credentialID(w http.ResponseWriter, r *http.Request) (domain.CredentialID, bool) {
	id, err := domain.ParseCredentialID(chi.URLParam(r, "credentialId"))
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			err = dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "Invalid credential ID")
		}
		httputil.WriteError(w, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
