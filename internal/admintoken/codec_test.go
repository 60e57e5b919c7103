package admintoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/pkg/requestcontext"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := New("test-secret")
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), issued)

	token, err := codec.Issue(ctx, "adm_1", "alice", "alice@example.com")
	require.NoError(t, err)

	identity, err := codec.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "adm_1", identity.AdminID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.True(t, identity.IssuedAt.Equal(issued))
	assert.True(t, identity.Expiry.Equal(issued.Add(TokenTTL)), "expiry must be issued-at + 24h")
}

func TestVerifyExpiryWindow(t *testing.T) {
	codec := New("test-secret")
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token, err := codec.Issue(requestcontext.WithTime(context.Background(), issued), "adm_1", "alice", "alice@example.com")
	require.NoError(t, err)

	t.Run("valid one minute before expiry", func(t *testing.T) {
		ctx := requestcontext.WithTime(context.Background(), issued.Add(23*time.Hour+59*time.Minute))
		_, err := codec.Verify(ctx, token)
		assert.NoError(t, err)
	})

	t.Run("expired one minute after expiry", func(t *testing.T) {
		ctx := requestcontext.WithTime(context.Background(), issued.Add(24*time.Hour+time.Minute))
		_, err := codec.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("fast path applies the same expiry rule", func(t *testing.T) {
		ctx := requestcontext.WithTime(context.Background(), issued.Add(24*time.Hour+time.Minute))
		_, err := codec.DecodeUnverified(ctx, token)
		assert.ErrorIs(t, err, ErrExpired)
	})
}

func TestVerifyMalformed(t *testing.T) {
	codec := New("test-secret")
	ctx := context.Background()

	for _, token := range []string{"", "no-dots", "one.dot", "a.b.c.d"} {
		_, err := codec.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)

		_, err = codec.DecodeUnverified(ctx, token)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}

	// Three segments but undecodable payload.
	_, err := codec.Verify(ctx, "aaaa.bbbb.cccc")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifySignature(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), issued)

	forged, err := New("attacker-secret").Issue(ctx, "adm_1", "mallory", "mallory@example.com")
	require.NoError(t, err)

	codec := New("server-secret")

	t.Run("strict path rejects foreign signature", func(t *testing.T) {
		_, err := codec.Verify(ctx, forged)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("fast path accepts any well-formed non-expired token", func(t *testing.T) {
		identity, err := codec.DecodeUnverified(ctx, forged)
		require.NoError(t, err)
		assert.Equal(t, "mallory", identity.Username)
	})
}
