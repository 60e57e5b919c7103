package magiclink

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendMailer delivers magic-link mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) SendMagicLink(ctx context.Context, recipient, link string, expiry time.Duration) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{recipient},
		Subject: "Your sign-in link",
		Html: fmt.Sprintf(
			`<p>Click to sign in:</p><p><a href="%s">%s</a></p><p>This link expires in %d minutes and can be used once.</p>`,
			link, link, int(expiry.Minutes()),
		),
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send magic link email: %w", err)
	}
	return nil
}
