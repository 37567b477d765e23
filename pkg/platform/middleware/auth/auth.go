package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/httputil"
	"skillchain/pkg/requestcontext"
)

// SessionValidator validates a bearer session token and returns its identity.
// Failures should be domain errors with an unauthorized code and a reason
// (TOKEN_EXPIRED, INVALID_TOKEN, ...).
type SessionValidator interface {
	ValidateSession(token string) (*domain.Identity, error)
}

// RequireAuth rejects requests without a valid bearer session and stores the
// session identity in the request context.
func RequireAuth(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			header := r.Header.Get("Authorization")
			if header == "" {
				logger.WarnContext(ctx, "unauthorized access - missing authorization header",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "AUTH_HEADER_MISSING", "Authorization header missing"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "TOKEN_MISSING", "Token missing from authorization header"))
				return
			}

			identity, err := validator.ValidateSession(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					err = dErrors.Wrap(err, dErrors.CodeUnauthorized, "TOKEN_VERIFICATION_FAILED", "Token verification failed")
				}
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithIdentity(ctx, *identity)))
		})
	}
}

// GetIdentity returns the authenticated identity from the context.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	return requestcontext.Identity(ctx)
}
