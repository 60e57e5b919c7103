// Package admintoken encodes and decodes the signed, time-bound claim set
// that represents an authenticated administrator. The codec is purely
// computational: no storage, no I/O.
package admintoken

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"streamgate/pkg/requestcontext"
)

// TokenTTL is the fixed validity window. Expiry is always issued-at + 24h;
// this is policy, not configuration.
const TokenTTL = 24 * time.Hour

// Verification failure modes. Callers branch on these; none of them should
// escape an auth guard as anything other than a 401.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrExpired          = errors.New("token expired")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

// Identity is the claim set carried inside a token: who the administrator is
// for the duration of one token's validity. Never persisted as a row.
type Identity struct {
	AdminID  string
	Username string
	Email    string
	IssuedAt time.Time
	Expiry   time.Time
}

type claims struct {
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Codec issues and verifies admin tokens signed with a server-held secret
// (HMAC-SHA256).
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs the identity claims into an opaque token string. Issued-at is
// taken from the request context so tests can pin it.
func (c *Codec) Issue(ctx context.Context, adminID, username, email string) (string, error) {
	now := requestcontext.Now(ctx)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		AdminID:  adminID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify is the strict path: structural check, signature check against the
// server secret, then expiry check. Every network-facing guard uses this.
func (c *Codec) Verify(ctx context.Context, token string) (*Identity, error) {
	return c.verify(ctx, token, false)
}

// DecodeUnverified is the fast path: structural and expiry checks only, no
// signature verification. It accepts any syntactically valid, non-expired
// token regardless of who produced it, so it must never be reachable from a
// network boundary. It exists for already-trusted local contexts where the
// HMAC primitive is unavailable.
func (c *Codec) DecodeUnverified(ctx context.Context, token string) (*Identity, error) {
	return c.verify(ctx, token, true)
}

func (c *Codec) verify(ctx context.Context, token string, skipSignature bool) (*Identity, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformed
	}

	now := requestcontext.Now(ctx)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var cl claims
	if skipSignature {
		if _, _, err := parser.ParseUnverified(token, &cl); err != nil {
			return nil, ErrMalformed
		}
		// ParseUnverified skips claim validation too; apply the same expiry
		// rule as the strict path.
		if cl.ExpiresAt == nil || !cl.ExpiresAt.After(now) {
			return nil, ErrExpired
		}
		return cl.identity(), nil
	}

	parsed, err := parser.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.secret, nil
	})
	switch {
	case err == nil && parsed.Valid:
		if cl.ExpiresAt == nil {
			return nil, ErrExpired
		}
		return cl.identity(), nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrSignatureInvalid
	default:
		return nil, ErrMalformed
	}
}

func (c claims) identity() *Identity {
	id := &Identity{
		AdminID:  c.AdminID,
		Username: c.Username,
		Email:    c.Email,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.Expiry = c.ExpiresAt.Time
	}
	return id
}
