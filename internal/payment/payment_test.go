package payment

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/internal/user"
	"streamgate/pkg/domainerrors"
)

func TestVerifySignature(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"event":"payment.succeeded","ref":"pi_123"}`)

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, body, Sign(secret, body)))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, Sign("other-secret", body)))
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		sig := Sign(secret, body)
		assert.False(t, VerifySignature(secret, []byte(`{"event":"payment.succeeded","ref":"pi_999"}`), sig))
	})

	t.Run("non-hex signature rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, "zz-not-hex"))
	})

	t.Run("empty inputs rejected", func(t *testing.T) {
		assert.False(t, VerifySignature("", body, Sign(secret, body)))
		assert.False(t, VerifySignature(secret, body, ""))
	})
}

func newTestService() (*Service, *user.MemoryStore, *MemoryStore) {
	users := user.NewMemoryStore()
	records := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewService(records, users, logger), users, records
}

func TestApplyUpdatesPlanOnSuccess(t *testing.T) {
	svc, users, _ := newTestService()
	require.NoError(t, users.Insert(context.Background(), &user.User{
		ID: "u1", Email: "viewer@example.com", Plan: user.PlanFree, CreatedAt: time.Now().UTC(),
	}))

	err := svc.Apply(context.Background(), &Record{
		ID: "pay_1", UserID: "u1", ProviderRef: "pi_123",
		AmountCents: 999, Currency: "usd", Status: StatusSucceeded, Plan: user.PlanSubscription,
	})
	require.NoError(t, err)

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, user.PlanSubscription, u.Plan)
}

func TestApplyIsIdempotentPerProviderRef(t *testing.T) {
	svc, users, records := newTestService()
	require.NoError(t, users.Insert(context.Background(), &user.User{ID: "u1", Email: "v@example.com", Plan: user.PlanFree}))

	rec := &Record{ID: "pay_1", UserID: "u1", ProviderRef: "pi_123", Status: StatusSucceeded, Plan: user.PlanSubscription}
	require.NoError(t, svc.Apply(context.Background(), rec))
	require.NoError(t, svc.Apply(context.Background(), rec)) // provider retry

	all, err := records.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApplyFailedPaymentLeavesPlanAlone(t *testing.T) {
	svc, users, _ := newTestService()
	require.NoError(t, users.Insert(context.Background(), &user.User{ID: "u1", Email: "v@example.com", Plan: user.PlanFree}))

	err := svc.Apply(context.Background(), &Record{
		ID: "pay_1", UserID: "u1", ProviderRef: "pi_124", Status: StatusFailed, Plan: user.PlanSubscription,
	})
	require.NoError(t, err)

	u, _ := users.FindByID(context.Background(), "u1")
	assert.Equal(t, user.PlanFree, u.Plan)
}

func TestApplyUnknownUserKeepsRecord(t *testing.T) {
	svc, _, records := newTestService()

	err := svc.Apply(context.Background(), &Record{
		ID: "pay_1", UserID: "ghost", ProviderRef: "pi_125", Status: StatusSucceeded, Plan: user.PlanSubscription,
	})
	require.NoError(t, err)

	_, err = records.FindByProviderRef(context.Background(), "pi_125")
	assert.NoError(t, err)
}

func TestApplyMissingFields(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Apply(context.Background(), &Record{})
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}
