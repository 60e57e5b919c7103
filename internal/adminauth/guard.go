// Package adminauth bridges inbound requests to the admin token codec. It
// never throws past its boundary: an absent or invalid credential degrades to
// "not authenticated", which callers must branch on explicitly.
package adminauth

import (
	"context"
	"log/slog"
	"net/http"

	"streamgate/internal/admintoken"
	"streamgate/pkg/requestcontext"
)

// CookieName is the cookie that carries the admin credential on every
// admin-facing request.
const CookieName = "admin_session"

type identityKey struct{}

// GetIdentity retrieves the authenticated admin identity from the context,
// or nil when the request did not pass RequireAuth.
func GetIdentity(ctx context.Context) *admintoken.Identity {
	if id, ok := ctx.Value(identityKey{}).(*admintoken.Identity); ok {
		return id
	}
	return nil
}

// WithIdentity injects an admin identity into a context. Useful for handler
// tests that don't run the middleware chain.
func WithIdentity(ctx context.Context, id *admintoken.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Guard authenticates admin-facing requests against the token codec.
type Guard struct {
	codec  *admintoken.Codec
	logger *slog.Logger
}

func NewGuard(codec *admintoken.Codec, logger *slog.Logger) *Guard {
	return &Guard{codec: codec, logger: logger}
}

// Authenticate extracts the credential cookie and verifies it. A missing
// cookie is a normal outcome, not an error; any codec failure also yields
// (nil, false) so expired and forged tokens are indistinguishable from
// "never logged in".
func (g *Guard) Authenticate(r *http.Request) (*admintoken.Identity, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	identity, err := g.codec.Verify(r.Context(), cookie.Value)
	if err != nil {
		g.logger.WarnContext(r.Context(), "admin token rejected",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		return nil, false
	}
	return identity, true
}

// RequireAuth wraps admin-facing handlers. On failure it responds 401 and the
// wrapped handler never runs; on success the identity is available via
// GetIdentity.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.Authenticate(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}
