package services

import (
	"context"
	"errors"
	"strings"

	"backoffice/internal/metrics"
	"backoffice/internal/notify"
)

var errNoRecipient = errors.New("client has no email address")

// sendMail renders a named template and hands it to the mailer. A missing
// mailer or recipient is reported as an error; callers decide whether it
// aborts anything.
func sendMail(ctx context.Context, m notify.Mailer, t *notify.Templates, name, to string, data any) (err error) {
	defer func() { metrics.MailsTotal.WithLabelValues(name, metrics.Outcome(err)).Inc() }()

	if strings.TrimSpace(to) == "" {
		return errNoRecipient
	}
	if m == nil {
		return errors.New("no mailer configured")
	}
	if t == nil {
		t = notify.DefaultTemplates()
	}
	msg, err := t.Render(name, to, data)
	if err != nil {
		return err
	}
	return m.Send(ctx, msg)
}
