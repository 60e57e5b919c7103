package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
	"streamgate/pkg/sentinel"
)

// Manager owns all reads and writes of session state. It is the only writer;
// the Gate reads through it and decides, nothing else mutates sessions.
type Manager struct {
	store  Store
	logger *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// FindActiveSessions returns every session for the user with the active flag
// set. No ordering guarantee.
func (m *Manager) FindActiveSessions(ctx context.Context, userID string) ([]*Session, error) {
	sessions, err := m.store.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "session store unavailable")
	}
	return sessions, nil
}

// CountActive returns the cardinality of the user's active session set.
func (m *Manager) CountActive(ctx context.Context, userID string) (int, error) {
	sessions, err := m.FindActiveSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// Touch refreshes last_activity on the named session. Touching a session that
// no longer exists is reported but never fatal.
func (m *Manager) Touch(ctx context.Context, sessionID string) {
	if err := m.store.Touch(ctx, sessionID, requestcontext.Now(ctx)); err != nil {
		m.logger.WarnContext(ctx, "session touch failed",
			"error", err,
			"session_id", sessionID,
		)
	}
}

// Create inserts a new active session with created_at = last_activity = now.
// The caller is responsible for having already checked the cap; this method
// does not re-check it, keeping the check-then-act sequence under the Gate's
// single point of control. The storage layer may still refuse the insert when
// another process won the race.
func (m *Manager) Create(ctx context.Context, userID, fingerprint string, device DeviceInfo, ip, userAgent string) (*Session, error) {
	now := requestcontext.Now(ctx)
	sess := &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Fingerprint:  fingerprint,
		Device:       device,
		IPAddress:    ip,
		UserAgent:    userAgent,
		Active:       true,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := m.store.Insert(ctx, sess); err != nil {
		if errors.Is(err, ErrCapConflict) {
			return nil, domainerrors.New(domainerrors.CodeCapReached, RejectionMaxDevices)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "session store unavailable")
	}
	return sess, nil
}

// Deactivate clears the active flag on the named session (logout).
func (m *Manager) Deactivate(ctx context.Context, sessionID string) error {
	if err := m.store.Deactivate(ctx, sessionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "session not found")
		}
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "session store unavailable")
	}
	return nil
}

// ReapIdle deactivates sessions idle since before the cutoff and returns how
// many were affected.
func (m *Manager) ReapIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := m.store.DeactivateIdleBefore(ctx, cutoff)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "session store unavailable")
	}
	return n, nil
}
