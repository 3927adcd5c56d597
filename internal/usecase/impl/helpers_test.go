package impl

import (
	"io"
	"log/slog"
	"time"

	"contacts/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:             4,
			AccessTokenTTL:         15 * time.Minute,
			RefreshTokenTTL:        30 * 24 * time.Hour,
			ResetTokenTTL:          15 * time.Minute,
			SessionCleanupInterval: time.Hour,
		},
	}
	cfg.App.Domain = "https://app.example.com/"

	return cfg
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
