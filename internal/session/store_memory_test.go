package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/pkg/sentinel"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	sess := &Session{
		ID: "s1", UserID: "u1", Fingerprint: "f1",
		Active: true, CreatedAt: now, LastActivity: now,
	}
	require.NoError(t, store.Insert(ctx, sess))

	got, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	// Mutating the returned copy must not leak back into the store.
	got.UserID = "mutated"
	again, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", again.UserID)

	_, err = store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStoreFindActiveByUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, s := range []*Session{
		{ID: "s1", UserID: "u1", Fingerprint: "f1", Active: true, CreatedAt: now, LastActivity: now},
		{ID: "s2", UserID: "u1", Fingerprint: "f2", Active: false, CreatedAt: now, LastActivity: now},
		{ID: "s3", UserID: "u2", Fingerprint: "f1", Active: true, CreatedAt: now, LastActivity: now},
	} {
		require.NoError(t, store.Insert(ctx, s))
	}

	active, err := store.FindActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s1", active[0].ID)
}

func TestMemoryStoreTouchIgnoresInactive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, &Session{
		ID: "s1", UserID: "u1", Fingerprint: "f1", Active: false,
		CreatedAt: now, LastActivity: now,
	}))

	require.NoError(t, store.Touch(ctx, "s1", now.Add(time.Hour)))
	got, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.LastActivity.Equal(now), "inactive sessions are not touched")

	require.NoError(t, store.Touch(ctx, "missing", now), "touch on missing id is a no-op")
}

func TestMemoryStoreDeactivateIdleBefore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, &Session{ID: "old", UserID: "u1", Fingerprint: "f1", Active: true, CreatedAt: base, LastActivity: base}))
	require.NoError(t, store.Insert(ctx, &Session{ID: "new", UserID: "u1", Fingerprint: "f2", Active: true, CreatedAt: base, LastActivity: base.Add(48 * time.Hour)}))

	n, err := store.DeactivateIdleBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
