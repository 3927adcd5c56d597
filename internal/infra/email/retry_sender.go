package email

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "contacts/internal/delivery/context"
	"contacts/internal/domain/service"
	"contacts/internal/infra/metrics"

	"github.com/pkg/errors"
)

// AttemptRecorder counts delivery attempts by result.
type AttemptRecorder interface {
	EmailAttempt(result string)
}

// retrySender retries a failed send, waiting attempt*delay between attempts.
type retrySender struct {
	next        service.EmailSender
	maxAttempts int
	delay       time.Duration
	recorder    AttemptRecorder
	logger      *slog.Logger
}

// NewRetrySender wraps next with a bounded linear-backoff retry loop.
func NewRetrySender(next service.EmailSender, maxAttempts int, delay time.Duration, recorder AttemptRecorder, logger *slog.Logger) service.EmailSender {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &retrySender{
		next:        next,
		maxAttempts: maxAttempts,
		delay:       delay,
		recorder:    recorder,
		logger:      logger,
	}
}

func (s *retrySender) Send(ctx context.Context, msg *service.EmailMessage) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = s.next.Send(ctx, msg)
		if lastErr == nil {
			s.record(metrics.EmailResultSuccess)

			return nil
		}

		s.record(metrics.EmailResultFailure)
		logger.WarnContext(ctx, "Email send attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.maxAttempts),
			slog.Any("error", lastErr),
		)

		if attempt == s.maxAttempts {
			break
		}

		timer := time.NewTimer(time.Duration(attempt) * s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return errors.Wrap(ctx.Err(), "email retry aborted")
		case <-timer.C:
		}
	}

	return errors.Wrapf(lastErr, "email not sent after %d attempts", s.maxAttempts)
}

func (s *retrySender) record(result string) {
	if s.recorder != nil {
		s.recorder.EmailAttempt(result)
	}
}
