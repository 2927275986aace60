// Package notify sends customer emails rendered from named templates.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

const (
	ReservationConfirmation = "reservation_confirmation"
	ReservationCancellation = "reservation_cancellation"
	PaymentReceipt          = "payment_receipt"
)

type Message struct {
	From     string
	To       string
	Subject  string
	Body     string
	Template string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	From   string
	Logger *zap.SugaredLogger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("mail %q: missing recipient", msg.Template)
	}
	if msg.From == "" {
		msg.From = m.From
	}
	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infow("mail queued",
		"template", msg.Template,
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	)
	return nil
}

// Templates renders messages by name. Each template defines a "subject" and
// a "body" block.
type Templates struct {
	set map[string]*template.Template
}

func NewTemplates(sources map[string]string) (*Templates, error) {
	t := &Templates{set: make(map[string]*template.Template, len(sources))}
	for name, src := range sources {
		tpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.set[name] = tpl
	}
	return t, nil
}

// DefaultTemplates returns the built-in agency templates.
func DefaultTemplates() *Templates {
	t, err := NewTemplates(builtin)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(name, to string, data any) (Message, error) {
	tpl, ok := t.set[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", name)
	}
	var subject, body bytes.Buffer
	if err := tpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tpl.ExecuteTemplate(&body, "body", data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return Message{
		To:       to,
		Subject:  strings.TrimSpace(subject.String()),
		Body:     body.String(),
		Template: name,
	}, nil
}

// ReservationMail feeds the reservation templates.
type ReservationMail struct {
	Agency     string
	ClientName string
	Number     string
	TripTitle  string
	StartDate  string
	EndDate    string
	Travelers  int
	Total      string
	AmountDue  string
}

// PaymentMail feeds the payment receipt template.
type PaymentMail struct {
	Agency            string
	ClientName        string
	Number            string
	Date              string
	Amount            string
	Method            string
	ReservationNumber string
	AmountDue         string
}

var builtin = map[string]string{
	ReservationConfirmation: `{{define "subject"}}{{.Agency}} - reservation {{.Number}} confirmed{{end}}
{{define "body"}}Dear {{.ClientName}},

Your reservation {{.Number}} for "{{.TripTitle}}" ({{.StartDate}} to {{.EndDate}}) is confirmed.
Travelers: {{.Travelers}}
Total: {{.Total}}
Remaining to pay: {{.AmountDue}}

{{.Agency}}
{{end}}`,
	ReservationCancellation: `{{define "subject"}}{{.Agency}} - reservation {{.Number}} cancelled{{end}}
{{define "body"}}Dear {{.ClientName}},

Your reservation {{.Number}} for "{{.TripTitle}}" has been cancelled.

{{.Agency}}
{{end}}`,
	PaymentReceipt: `{{define "subject"}}{{.Agency}} - payment {{.Number}} received{{end}}
{{define "body"}}Dear {{.ClientName}},

We received your payment {{.Number}} of {{.Amount}} ({{.Method}}) on {{.Date}}{{if .ReservationNumber}} for reservation {{.ReservationNumber}}{{end}}.
{{if .AmountDue}}Remaining to pay: {{.AmountDue}}
{{end}}
{{.Agency}}
{{end}}`,
}
