package adminauth

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/internal/admintoken"
	"streamgate/pkg/requestcontext"
)

func newTestGuard() (*Guard, *admintoken.Codec) {
	codec := admintoken.New("guard-test-secret")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewGuard(codec, logger), codec
}

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		require.NotNil(t, identity, "identity must be set once RequireAuth passes")
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthNoCookie(t *testing.T) {
	guard, _ := newTestGuard()
	req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestRequireAuthValidCookie(t *testing.T) {
	guard, codec := newTestGuard()
	token, err := codec.Issue(context.Background(), "adm_1", "alice", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthExpiredCookie(t *testing.T) {
	guard, codec := newTestGuard()
	issued := time.Now().UTC().Add(-25 * time.Hour)
	token, err := codec.Issue(requestcontext.WithTime(context.Background(), issued), "adm_1", "alice", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedHandler(t)).ServeHTTP(rec, req)

	// Expired is indistinguishable from never-logged-in at this boundary.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateGarbageCookie(t *testing.T) {
	guard, _ := newTestGuard()
	req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})

	identity, ok := guard.Authenticate(req)
	assert.False(t, ok)
	assert.Nil(t, identity)
}
