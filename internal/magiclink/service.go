// Package magiclink implements the passwordless login flow: a single-use
// token mailed to the viewer, redeemed once within its validity window.
// Redemption feeds the admission gate; this package decides nothing about
// devices.
package magiclink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"streamgate/internal/platform/metrics"
	"streamgate/internal/user"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
	"streamgate/pkg/sentinel"
)

// TokenStore holds outstanding magic-link tokens. Consume is single-use: a
// second Consume of the same token fails with sentinel.ErrNotFound.
type TokenStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (userID string, err error)
}

// Mailer delivers the login link. Failures must surface to the caller as a
// visible "could not send" error, never a silent drop.
type Mailer interface {
	SendMagicLink(ctx context.Context, recipient, link string, expiry time.Duration) error
}

type Service struct {
	users   user.Store
	tokens  TokenStore
	mailer  Mailer
	metrics *metrics.Metrics
	logger  *slog.Logger
	baseURL string
	ttl     time.Duration
}

func NewService(users user.Store, tokens TokenStore, mailer Mailer, m *metrics.Metrics, logger *slog.Logger, baseURL string, ttl time.Duration) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
		baseURL: baseURL,
		ttl:     ttl,
	}
}

// Request finds or creates the profile for the email, mints a single-use
// token, and mails the login link.
func (s *Service) Request(ctx context.Context, email string) error {
	if email == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields")
	}

	u, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return err
	}

	token, err := newToken()
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to mint login token")
	}
	if err := s.tokens.Put(ctx, token, u.ID, s.ttl); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "token store unavailable")
	}

	link := fmt.Sprintf("%s/login/verify?token=%s", s.baseURL, token)
	if err := s.mailer.SendMagicLink(ctx, u.Email, link, s.ttl); err != nil {
		s.logger.ErrorContext(ctx, "magic link delivery failed",
			"error", err,
			"user_id", u.ID,
		)
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "could not send login email")
	}

	if s.metrics != nil {
		s.metrics.MagicLinksSent.Inc()
	}
	s.logger.InfoContext(ctx, "magic link sent", "user_id", u.ID)
	return nil
}

// Verify consumes the token and returns the owning user. Unknown, expired,
// and already-used tokens are indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields")
	}

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return nil, domainerrors.New(domainerrors.CodeUnauthorized, "invalid or expired login link")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "token store unavailable")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "user store unavailable")
	}
	return u, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, email string) (*user.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "user store unavailable")
	}

	u = &user.User{
		ID:        uuid.NewString(),
		Email:     email,
		Plan:      user.PlanFree,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "user store unavailable")
	}
	return u, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
