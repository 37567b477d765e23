package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skillchain/internal/auth/models"
	"skillchain/pkg/platform/httputil"
	"skillchain/pkg/requestcontext"
)

// Service defines the wallet login operation.
type Service interface {
	VerifyWallet(ctx context.Context, req *models.VerifyWalletRequest) (*models.LoginResult, error)
}

// Handler serves wallet login.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/verify-wallet", h.HandleVerifyWallet)
}

// HandleVerifyWallet implements POST /auth/verify-wallet.
//
// Input: { "address": "0x...", "message": "Sign this message to log in to SkillChain: 1700000000000", "signature": "0x..." }
// Output: { "firebaseToken": "...", "user": { "address": "0x...", "email": null, "hasProfile": false } }
func (h *Handler) HandleVerifyWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.VerifyWalletRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.auth.VerifyWallet(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet verification failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewVerifyWalletResponse(res))
}
