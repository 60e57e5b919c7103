package session

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/pkg/requestcontext"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewManager(store, logger), store
}

func TestManagerCreateSetsTimestamps(t *testing.T) {
	manager, _ := newTestManager()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	sess, err := manager.Create(ctx, "u1", "f1", DeviceInfo{Platform: "macOS"}, "198.51.100.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.Active)
	assert.True(t, sess.CreatedAt.Equal(now))
	assert.True(t, sess.LastActivity.Equal(now))
	assert.Equal(t, "macOS", sess.Device.Platform)
}

func TestManagerTouchAdvancesLastActivity(t *testing.T) {
	manager, store := newTestManager()
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sess, err := manager.Create(requestcontext.WithTime(context.Background(), t0), "u1", "f1", DeviceInfo{}, "ip", "ua")
	require.NoError(t, err)

	t1 := t0.Add(time.Hour)
	manager.Touch(requestcontext.WithTime(context.Background(), t1), sess.ID)

	stored, err := store.FindByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastActivity.Equal(t1))
	assert.True(t, stored.LastActivity.After(stored.CreatedAt) || stored.LastActivity.Equal(stored.CreatedAt))
}

func TestManagerTouchUnknownSessionIsNoOp(t *testing.T) {
	manager, _ := newTestManager()
	// Must not panic or surface an error to the caller.
	manager.Touch(context.Background(), "no-such-session")
}

func TestManagerDeactivate(t *testing.T) {
	manager, _ := newTestManager()
	sess, err := manager.Create(context.Background(), "u1", "f1", DeviceInfo{}, "ip", "ua")
	require.NoError(t, err)

	require.NoError(t, manager.Deactivate(context.Background(), sess.ID))

	count, err := manager.CountActive(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	err = manager.Deactivate(context.Background(), "no-such-session")
	assert.Error(t, err)
}

func TestManagerReapIdle(t *testing.T) {
	manager, store := newTestManager()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	stale, err := manager.Create(requestcontext.WithTime(context.Background(), base), "u1", "f1", DeviceInfo{}, "ip", "ua")
	require.NoError(t, err)
	fresh, err := manager.Create(requestcontext.WithTime(context.Background(), base.Add(40*24*time.Hour)), "u1", "f2", DeviceInfo{}, "ip", "ua")
	require.NoError(t, err)

	cutoff := base.Add(30 * 24 * time.Hour)
	n, err := manager.ReapIdle(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	staleStored, err := store.FindByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.False(t, staleStored.Active)

	freshStored, err := store.FindByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.True(t, freshStored.Active)
}
