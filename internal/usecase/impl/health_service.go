package impl

import (
	"context"
	"log/slog"
	"time"

	"contacts/internal/domain/repository"
	"contacts/internal/usecase"

	"go.uber.org/fx"
)

const (
	healthStatusOK     = "ok"
	dbStatusConnected  = "connected"
	dbStatusDisconnect = "disconnected"
	healthPingTimeout  = 2 * time.Second
)

// healthService implements the HealthUsecase interface.
type healthService struct {
	checker   repository.HealthChecker
	startedAt time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// HealthServiceParams holds dependencies for HealthService, injected by Fx.
type HealthServiceParams struct {
	fx.In

	Checker repository.HealthChecker
	Logger  *slog.Logger
}

// NewHealthService is the constructor for healthService.
func NewHealthService(params HealthServiceParams) usecase.HealthUsecase {
	return &healthService{
		checker:   params.Checker,
		startedAt: time.Now(),
		now:       time.Now,
		logger:    params.Logger,
	}
}

// Check pings the database with a short timeout. The process itself is always reported ok.
func (srv *healthService) Check(ctx context.Context) *usecase.HealthStatus {
	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	dbStatus := dbStatusConnected
	if err := srv.checker.Ping(pingCtx); err != nil {
		srv.logger.Warn("Database ping failed", slog.Any("error", err))
		dbStatus = dbStatusDisconnect
	}

	return &usecase.HealthStatus{
		Status:   healthStatusOK,
		DBStatus: dbStatus,
		Uptime:   srv.now().Sub(srv.startedAt).Round(time.Second).String(),
	}
}
