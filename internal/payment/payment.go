// Package payment keeps payment bookkeeping records and verifies inbound
// webhook signatures. The provider protocol itself is external; nothing here
// talks to the gateway.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"streamgate/internal/user"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
	"streamgate/pkg/sentinel"
)

// Record statuses as reported by the provider.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Record is one bookkeeping entry, keyed by the provider's reference so
// webhook retries are idempotent.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProviderRef string    `json:"provider_ref"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Plan        string    `json:"plan,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Store persists payment records. Upsert is keyed on ProviderRef.
type Store interface {
	Upsert(ctx context.Context, r *Record) error
	List(ctx context.Context) ([]*Record, error)
	FindByProviderRef(ctx context.Context, ref string) (*Record, error)
}

type Service struct {
	records Store
	users   user.Store
	logger  *slog.Logger
}

func NewService(records Store, users user.Store, logger *slog.Logger) *Service {
	return &Service{records: records, users: users, logger: logger}
}

// Apply records a verified payment event and updates the payer's plan on
// success. Retried events overwrite their earlier record rather than
// duplicating it.
func (s *Service) Apply(ctx context.Context, rec *Record) error {
	if rec.UserID == "" || rec.ProviderRef == "" || rec.Status == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields")
	}
	rec.ReceivedAt = requestcontext.Now(ctx)

	if err := s.records.Upsert(ctx, rec); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "payment store unavailable")
	}

	if rec.Status == StatusSucceeded && rec.Plan != "" {
		if err := s.users.UpdatePlan(ctx, rec.UserID, rec.Plan); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				// Keep the bookkeeping record even when the profile is gone.
				s.logger.WarnContext(ctx, "payment for unknown user",
					"user_id", rec.UserID,
					"provider_ref", rec.ProviderRef,
				)
				return nil
			}
			return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "user store unavailable")
		}
	}

	s.logger.InfoContext(ctx, "payment recorded",
		"user_id", rec.UserID,
		"provider_ref", rec.ProviderRef,
		"status", rec.Status,
	)
	return nil
}

// List returns all bookkeeping records for the admin console.
func (s *Service) List(ctx context.Context) ([]*Record, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "payment store unavailable")
	}
	return records, nil
}
