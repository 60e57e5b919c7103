package session

import (
	"context"
	"log/slog"
	"time"

	"streamgate/internal/platform/metrics"
)

// Reaper deactivates sessions that have been idle longer than the configured
// TTL. Deactivated sessions stop counting toward the device cap; rows are
// kept for audit.
type Reaper struct {
	manager  *Manager
	metrics  *metrics.Metrics
	logger   *slog.Logger
	idleTTL  time.Duration
	interval time.Duration
}

func NewReaper(manager *Manager, m *metrics.Metrics, logger *slog.Logger, idleTTL, interval time.Duration) *Reaper {
	return &Reaper{manager: manager, metrics: m, logger: logger, idleTTL: idleTTL, interval: interval}
}

// Run loops until the context is cancelled, sweeping once per interval. An
// immediate sweep runs at startup so restarts don't extend idle sessions.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.idleTTL)
	n, err := r.manager.ReapIdle(ctx, cutoff)
	if err != nil {
		r.logger.ErrorContext(ctx, "session reap failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.InfoContext(ctx, "reaped idle sessions", "count", n, "cutoff", cutoff)
		if r.metrics != nil {
			r.metrics.SessionsReaped.Add(float64(n))
		}
	}
}
