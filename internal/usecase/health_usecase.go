package usecase

import "context"

// HealthStatus is the liveness report served on /health.
type HealthStatus struct {
	Status   string `json:"status"`
	DBStatus string `json:"dbStatus"`
	Uptime   string `json:"uptime"`
}

// HealthUsecase reports process and database health.
type HealthUsecase interface {
	Check(ctx context.Context) *HealthStatus
}
