package magiclink

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamgate/internal/user"
	"streamgate/pkg/domainerrors"
	"streamgate/pkg/requestcontext"
)

type fakeMailer struct {
	sent []string // links
	fail bool
}

func (m *fakeMailer) SendMagicLink(_ context.Context, _, link string, _ time.Duration) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, link)
	return nil
}

func newTestService(mailer *fakeMailer) (*Service, *user.MemoryStore) {
	users := user.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := NewService(users, NewMemoryTokenStore(), mailer, nil, logger, "https://streamgate.example", 15*time.Minute)
	return svc, users
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	_, token, found := strings.Cut(link, "token=")
	require.True(t, found, "link must carry a token: %s", link)
	return token
}

func TestRequestCreatesUserAndSendsLink(t *testing.T) {
	mailer := &fakeMailer{}
	svc, users := newTestService(mailer)

	require.NoError(t, svc.Request(context.Background(), "viewer@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0], "https://streamgate.example/login/verify?token=")

	u, err := users.FindByEmail(context.Background(), "viewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.PlanFree, u.Plan)

	// A second request reuses the profile.
	require.NoError(t, svc.Request(context.Background(), "viewer@example.com"))
	again, err := users.FindByEmail(context.Background(), "viewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestRequestDeliveryFailureSurfaces(t *testing.T) {
	svc, _ := newTestService(&fakeMailer{fail: true})

	err := svc.Request(context.Background(), "viewer@example.com")
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeUnavailable))
	assert.Equal(t, "could not send login email", domainerrors.MessageOf(err))
}

func TestVerifyIsSingleUse(t *testing.T) {
	mailer := &fakeMailer{}
	svc, users := newTestService(mailer)
	require.NoError(t, svc.Request(context.Background(), "viewer@example.com"))
	token := tokenFromLink(t, mailer.sent[0])

	u, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)

	expected, err := users.FindByEmail(context.Background(), "viewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, expected.ID, u.ID)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeUnauthorized))
}

func TestVerifyExpiredToken(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newTestService(mailer)

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Request(requestcontext.WithTime(context.Background(), issued), "viewer@example.com"))
	token := tokenFromLink(t, mailer.sent[0])

	late := requestcontext.WithTime(context.Background(), issued.Add(16*time.Minute))
	_, err := svc.Verify(late, token)
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeUnauthorized))
}

func TestVerifyUnknownToken(t *testing.T) {
	svc, _ := newTestService(&fakeMailer{})
	_, err := svc.Verify(context.Background(), "bogus")
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeUnauthorized))
}
