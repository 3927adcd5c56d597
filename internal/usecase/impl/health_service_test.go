package impl

import (
	"context"
	"testing"
	"time"

	mockRepo "contacts/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		dbStatus string
	}{
		{name: "database up", dbStatus: "connected"},
		{name: "database down", pingErr: errors.New("dial tcp: connection refused"), dbStatus: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := mockRepo.NewMockHealthChecker(t)
			checker.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
				_, hasDeadline := ctx.Deadline()

				return hasDeadline
			})).Return(tt.pingErr)

			srv := NewHealthService(HealthServiceParams{Checker: checker, Logger: newDiscardLogger()}).(*healthService)
			srv.now = fixedClock(srv.startedAt.Add(90 * time.Second))

			status := srv.Check(context.Background())

			assert.Equal(t, "ok", status.Status)
			assert.Equal(t, tt.dbStatus, status.DBStatus)
			assert.Equal(t, "1m30s", status.Uptime)
		})
	}
}
