package session

import (
	"context"
	"errors"
	"time"
)

// ErrCapConflict is returned by stores whose insert is guarded by a count
// predicate, when the guard refuses the write. The memory store never returns
// it; the Gate's serialization already upholds the cap in-process.
var ErrCapConflict = errors.New("active session cap reached")

// Store persists session records. Stores are pure I/O; the admission policy
// (reuse, cap) lives in the Gate and the Manager.
//
// Implementations return sentinel.ErrNotFound for missing records where a
// record is required; Touch on a missing session is a no-op by contract.
type Store interface {
	Insert(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	FindActiveByUser(ctx context.Context, userID string) ([]*Session, error)
	// Touch sets last_activity on the named session. Touching a missing or
	// inactive session is a no-op, never an error.
	Touch(ctx context.Context, id string, at time.Time) error
	// Deactivate clears the active flag. Sessions are never physically deleted.
	Deactivate(ctx context.Context, id string) error
	// DeactivateIdleBefore clears the active flag on every session whose
	// last_activity is older than cutoff, returning how many were affected.
	DeactivateIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
