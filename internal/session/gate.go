package session

import (
	"context"
	"log/slog"
	"sync"

	"streamgate/internal/device"
	"streamgate/internal/platform/metrics"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
)

// AdmitRequest is one login/validation attempt. IPAddress and UserAgent come
// from request headers and may be empty; the Gate records "unknown" in that
// case rather than blocking admission.
type AdmitRequest struct {
	UserID      string
	Fingerprint string
	Device      DeviceInfo
	IPAddress   string
	UserAgent   string
}

// Result is the admission decision. Exactly one of three shapes:
// reuse (Valid, Reused, Session = existing), new admission (Valid, Session =
// new), or rejection (Valid = false, Reason set). There is no partial success.
type Result struct {
	Valid   bool
	Reused  bool
	Session *Session
	Reason  string
}

// Gate is the request-facing admission decision function and the only place
// the device cap is enforced.
//
// The check-then-act sequence (read active set, decide, insert) is serialized
// per user identifier with a keyed mutex, so two concurrent attempts for the
// same user cannot both observe a count under the cap and both insert.
type Gate struct {
	manager *Manager
	metrics *metrics.Metrics
	logger  *slog.Logger
	users   keyedMutex
}

func NewGate(manager *Manager, m *metrics.Metrics, logger *slog.Logger) *Gate {
	return &Gate{manager: manager, metrics: m, logger: logger}
}

const unknownValue = "unknown"

// Admit decides reuse / admit / reject for one attempt.
func (g *Gate) Admit(ctx context.Context, req AdmitRequest) (*Result, error) {
	if req.UserID == "" || req.Fingerprint == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "Missing required fields")
	}

	unlock := g.users.lock(req.UserID)
	defer unlock()

	sessions, err := g.manager.FindActiveSessions(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Reuse: a returning device must not count against the cap or create a
	// duplicate row.
	for _, existing := range sessions {
		if existing.Fingerprint == req.Fingerprint {
			g.manager.Touch(ctx, existing.ID)
			existing.LastActivity = requestcontext.Now(ctx)
			g.metrics.ObserveAdmission(metrics.OutcomeReused)
			return &Result{Valid: true, Reused: true, Session: existing}, nil
		}
	}

	// Cap: a hard business rule. Once reached, admission is categorically
	// skipped and no state is mutated.
	if len(sessions) >= MaxActiveSessions {
		g.metrics.ObserveAdmission(metrics.OutcomeRejected)
		g.logger.InfoContext(ctx, "admission rejected at device cap",
			"user_id", req.UserID,
			"active_sessions", len(sessions),
		)
		return &Result{Valid: false, Reason: RejectionMaxDevices}, nil
	}

	ip := req.IPAddress
	if ip == "" {
		ip = unknownValue
	}
	ua := req.UserAgent
	if ua == "" {
		ua = unknownValue
	}

	// Client-reported device info wins; the user agent only backfills blanks.
	req.Device.Platform, req.Device.Browser = device.Describe(req.Device.Platform, req.Device.Browser, ua)

	created, err := g.manager.Create(ctx, req.UserID, req.Fingerprint, req.Device, ip, ua)
	if err != nil {
		if domainerrors.HasCode(err, domainerrors.CodeCapReached) {
			// Another process won the race against the storage-level guard.
			g.metrics.ObserveAdmission(metrics.OutcomeRejected)
			return &Result{Valid: false, Reason: RejectionMaxDevices}, nil
		}
		return nil, err
	}

	g.metrics.ObserveAdmission(metrics.OutcomeAdmitted)
	return &Result{Valid: true, Session: created}, nil
}

// keyedMutex serializes critical sections per string key. Entries are
// reference counted and removed when the last holder releases, so the map
// does not grow with the user population.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*userLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &userLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
