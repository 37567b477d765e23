package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/httputil"
	"skillchain/pkg/requestcontext"
)

// Service defines the share access operation.
type Service interface {
	AccessSharedCredentials(ctx context.Context, id domain.ShareID) (*models.AccessResult, error)
}

// Handler serves share link access.
type Handler struct {
	sharing Service
	logger  *slog.Logger
}

func New(sharing Service, logger *slog.Logger) *Handler {
	return &Handler{sharing: sharing, logger: logger}
}

// Register registers the share routes. Both paths run the same access and
// report the access count after it was recorded.
func (h *Handler) Register(r chi.Router) {
	r.Get("/credentials/shared/{shareId}/credentials", h.HandleAccess)
	r.Get("/credentials/verify/{shareId}", h.HandleAccess)
}

// HandleAccess implements GET /credentials/shared/{shareId}/credentials and
// GET /credentials/verify/{shareId}.
func (h *Handler) HandleAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := domain.ParseShareID(chi.URLParam(r, "shareId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.sharing.AccessSharedCredentials(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "shared credentials access failed",
			"error", err,
			"share_id", id.String(),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewSharedCredentialsResponse(res, requestcontext.Now(ctx)))
}
