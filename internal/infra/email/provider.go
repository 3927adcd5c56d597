package email

import (
	"log/slog"

	"contacts/config"
	"contacts/internal/domain/service"
	"contacts/internal/infra/metrics"
)

// NewEmailSender builds the configured sender wrapped in the retry loop.
func NewEmailSender(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) service.EmailSender {
	var base service.EmailSender
	if cfg.Email.ResendAPIKey == "" {
		logger.Warn("email.resendApiKey is empty, emails will only be logged")
		base = NewLogSender(logger)
	} else {
		base = NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	}

	return NewRetrySender(base, cfg.Email.MaxAttempts, cfg.Email.RetryDelay, m, logger)
}
