package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	credentialModels "skillchain/internal/credential/models"
	"skillchain/internal/sharing/handler/mocks"
	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
)

func newRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return svc, r
}

func get(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return rec, got
}

func TestHandleAccess(t *testing.T) {
	result := &models.AccessResult{
		Link: &models.ShareLink{
			ShareID:     "share_abc_123",
			Owner:       "0xa11ce",
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			IsActive:    true,
			AccessCount: 4,
		},
		Credentials: []*credentialModels.Credential{{ID: "c1"}},
	}

	for _, path := range []string{"/credentials/shared/share_abc_123/credentials", "/credentials/verify/share_abc_123"} {
		t.Run("reports the recorded access count on "+path, func(t *testing.T) {
			svc, router := newRouter(t)
			svc.EXPECT().AccessSharedCredentials(gomock.Any(), domain.ShareID("share_abc_123")).Return(result, nil)

			rec, got := get(t, router, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, true, got["success"])
			info := got["shareInfo"].(map[string]any)
			assert.Equal(t, float64(4), info["accessCount"])
			assert.Len(t, got["credentials"], 1)
		})
	}

	t.Run("malformed share id never reaches the service", func(t *testing.T) {
		_, router := newRouter(t)
		rec, got := get(t, router, "/credentials/verify/SHARE_abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", got["code"])
	})

	t.Run("gone states map to 410", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().AccessSharedCredentials(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeGone, "SHARE_EXPIRED", "This shared credential has expired"))

		rec, got := get(t, router, "/credentials/verify/share_abc_123")
		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Equal(t, "SHARE_EXPIRED", got["code"])
		assert.Equal(t, false, got["success"])
	})
}
