package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"skillchain/internal/auth/handler/mocks"
	"skillchain/internal/auth/models"
	dErrors "skillchain/pkg/domain-errors"
)

const validBody = `{
	"address": "0x52908400098527886E0F7030069857D2E4169EE7",
	"message": "Sign this message to log in to SkillChain: 1700000000000",
	"signature": "0x` + "abababababababababababababababababababababababababababababababababababababababababababababababababababababababababababababababababab" + `"
}`

func newRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return svc, r
}

func post(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/verify-wallet", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return rec, got
}

func TestHandleVerifyWallet(t *testing.T) {
	t.Run("returns token and user", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().VerifyWallet(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, req *models.VerifyWalletRequest) (*models.LoginResult, error) {
				assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", req.Address)
				return &models.LoginResult{Token: "tok", Address: "0x52908400098527886e0f7030069857d2e4169ee7"}, nil
			})

		rec, got := post(t, router, validBody)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", got["firebaseToken"])
		user := got["user"].(map[string]any)
		assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", user["address"])
		assert.Nil(t, user["email"])
		assert.Equal(t, false, user["hasProfile"])
	})

	t.Run("rejects invalid body before calling the service", func(t *testing.T) {
		_, router := newRouter(t)
		rec, got := post(t, router, `{"address":"nope","message":"short","signature":"0x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", got["code"])
		assert.Equal(t, false, got["success"])
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, router := newRouter(t)
		rec, got := post(t, router, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST_BODY", got["code"])
	})

	t.Run("maps service errors", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().VerifyWallet(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "SIGNATURE_MISMATCH", "Signature does not match address"))

		rec, got := post(t, router, validBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SIGNATURE_MISMATCH", got["code"])
		assert.Equal(t, "Signature does not match address", got["error"])
	})
}
