package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"contacts/config"
	deliverycontext "contacts/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferedGormLogger(debug bool) (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(base, cfg), &buf
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		begin    time.Time
		err      error
		contains []string
		empty    bool
	}{
		{
			name:     "failed query",
			begin:    time.Now(),
			err:      errors.New("boom"),
			contains: []string{"level=ERROR", `msg="Query failed"`, "error=boom"},
		},
		{
			name:  "record not found is quiet",
			begin: time.Now(),
			err:   gorm.ErrRecordNotFound,
			empty: true,
		},
		{
			name:     "slow query",
			begin:    time.Now().Add(-time.Second),
			contains: []string{"level=WARN", `msg="Slow query"`, "threshold=200ms"},
		},
		{
			name:  "fast query outside debug",
			begin: time.Now(),
			empty: true,
		},
		{
			name:     "fast query in debug",
			debug:    true,
			begin:    time.Now(),
			contains: []string{"level=DEBUG", "msg=Query", "rows=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferedGormLogger(tt.debug)

			l.Trace(context.Background(), tt.begin, sqlFn("SELECT 1"), tt.err)

			if tt.empty {
				assert.Empty(t, buf.String())

				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestGormSlogLogger_SilentMode(t *testing.T) {
	l, buf := newBufferedGormLogger(true)

	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), errors.New("boom"))

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_TruncatesSQL(t *testing.T) {
	l, buf := newBufferedGormLogger(true)

	l.Trace(context.Background(), time.Now(), sqlFn(strings.Repeat("x", maxLoggedSQLLength+50)), nil)

	assert.Contains(t, buf.String(), strings.Repeat("x", maxLoggedSQLLength)+"...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", maxLoggedSQLLength+1))
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	l, base := newBufferedGormLogger(false)

	var scoped bytes.Buffer
	requestLogger := slog.New(slog.NewTextHandler(&scoped, nil)).With(slog.String("request_id", "req-1"))
	ctx := deliverycontext.WithLogger(context.Background(), requestLogger)

	l.Warn(ctx, "pool %s", "exhausted")

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "request_id=req-1")
	assert.Contains(t, scoped.String(), `msg="pool exhausted"`)
}
