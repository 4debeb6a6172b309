// Package mailer sends transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"fintrack-backend/config"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

// Mailer delivers an HTML message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer delivers through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg config.EmailConfig
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ErrNotConfigured is returned by LogMailer in production, where a message
// that only reaches the log would leak its links.
var ErrNotConfigured = errors.New("smtp host is not configured")

// LogMailer records that a message would have been sent. The body is never
// logged since it carries live reset links.
type LogMailer struct {
	Production bool
}

func (m LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.Production {
		return ErrNotConfigured
	}
	log.Info().Str("to", to).Str("subject", subject).Int("body_bytes", len(htmlBody)).Msg("Email not sent, no SMTP host configured")
	return nil
}

// New picks the SMTP mailer when a host is configured.
func New(cfg config.EmailConfig, production bool) Mailer {
	if cfg.Host == "" {
		return LogMailer{Production: production}
	}
	return NewSMTPMailer(cfg)
}
