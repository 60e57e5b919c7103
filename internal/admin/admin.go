// Package admin handles the administrative account surface: credential
// verification at login and the account records behind it. Request-level
// authentication of admin endpoints lives in adminauth; this package only
// turns a username/password pair into a signed token.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"streamgate/internal/admintoken"
	"streamgate/internal/platform/metrics"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/sentinel"
)

// Account is a stored administrator record. PasswordHash is bcrypt.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store persists admin accounts.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	Insert(ctx context.Context, a *Account) error
}

type Service struct {
	accounts Store
	codec    *admintoken.Codec
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(accounts Store, codec *admintoken.Codec, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, codec: codec, metrics: m, logger: logger}
}

// Login checks the password against the stored hash and issues a token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields")
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.observeLogin("rejected")
			return "", domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeUnavailable, "admin store unavailable")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.observeLogin("rejected")
		s.logger.WarnContext(ctx, "admin login rejected", "username", username)
		return "", domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.codec.Issue(ctx, account.ID, account.Username, account.Email)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to issue admin token")
	}

	s.observeLogin("accepted")
	s.logger.InfoContext(ctx, "admin login accepted", "admin_id", account.ID)
	return token, nil
}

// HashPassword produces the stored form of an admin password. Used by
// account provisioning, never on the request path.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) observeLogin(result string) {
	if s.metrics != nil {
		s.metrics.AdminLoginsTotal.WithLabelValues(result).Inc()
	}
}
