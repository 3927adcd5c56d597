package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"contacts/config"
	"contacts/internal/domain/lifecycle"
	"contacts/internal/usecase"

	"go.uber.org/fx"
)

const defaultSessionCleanupInterval = time.Hour

// SessionJanitor periodically removes sessions whose refresh token has expired.
type SessionJanitor struct {
	store    usecase.SessionStore
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SessionJanitorParams holds dependencies for SessionJanitor, injected by Fx.
type SessionJanitorParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Store     usecase.SessionStore
	Config    *config.Config
	Logger    *slog.Logger
}

// NewSessionJanitor creates the janitor and binds its loop to the application lifecycle.
func NewSessionJanitor(params SessionJanitorParams) *SessionJanitor {
	interval := defaultSessionCleanupInterval
	if params.Config.Auth != nil && params.Config.Auth.SessionCleanupInterval > 0 {
		interval = params.Config.Auth.SessionCleanupInterval
	}

	janitor := &SessionJanitor{
		store:    params.Store,
		interval: interval,
		logger:   params.Logger,
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			janitor.Start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return janitor.Stop(ctx)
		},
	})

	return janitor
}

// Start launches the cleanup loop in the background.
func (j *SessionJanitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.run(ctx)
	}()

	j.logger.Info("Session janitor started", slog.Duration("interval", j.interval))
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (j *SessionJanitor) Stop(ctx context.Context) error {
	if j.cancel == nil {
		return nil
	}
	j.cancel()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("Session janitor stopped")

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *SessionJanitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	purged, err := j.store.PurgeExpired(sweepCtx)
	if err != nil {
		j.logger.Error("Failed to purge expired sessions", slog.Any("error", err))

		return
	}

	if purged > 0 {
		j.logger.Info("Purged expired sessions", slog.Int64("count", purged))
	}
}
