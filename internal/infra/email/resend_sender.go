// Package email delivers transactional email through Resend.
package email

import (
	"context"
	"log/slog"

	"contacts/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v3"
)

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns an EmailSender backed by the Resend API.
func NewResendSender(apiKey, from string) service.EmailSender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *resendSender) Send(ctx context.Context, msg *service.EmailMessage) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return errors.Wrap(err, "resend: send email")
	}

	return nil
}

// logSender writes emails to the log instead of sending them. Used when no API key is configured.
type logSender struct {
	logger *slog.Logger
}

// NewLogSender returns an EmailSender that only logs.
func NewLogSender(logger *slog.Logger) service.EmailSender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, msg *service.EmailMessage) error {
	s.logger.InfoContext(ctx, "Email delivery disabled, logging message instead",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("html_bytes", len(msg.HTML)),
	)

	return nil
}
