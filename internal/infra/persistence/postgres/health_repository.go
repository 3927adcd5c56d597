package postgres

import (
	"context"

	"contacts/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type healthChecker struct {
	db *gorm.DB
}

// NewHealthChecker returns a HealthChecker backed by the primary connection pool.
func NewHealthChecker(db *gorm.DB) repository.HealthChecker {
	return &healthChecker{db: db}
}

func (h *healthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	return errors.Wrap(sqlDB.PingContext(ctx), "database ping failed")
}
