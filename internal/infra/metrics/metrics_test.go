package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}

func TestMetrics_MiddlewareRecordsRouteTemplate(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/contacts/:contactId", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	for _, path := range []string{"/contacts/1", "/contacts/2", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/contacts/:contactId",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/boom",status="418"} 1`)
	assert.NotContains(t, body, `path="/contacts/1"`)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SessionCreated()
	m.SessionCreated()
	m.SessionsPurged(3)
	m.SessionsPurged(0)
	m.EmailAttempt(EmailResultFailure)
	m.EmailAttempt(EmailResultSuccess)

	body := scrape(t, m)
	assert.Contains(t, body, "auth_sessions_created_total 2")
	assert.Contains(t, body, "auth_sessions_purged_total 3")
	assert.Contains(t, body, `email_send_attempts_total{result="failure"} 1`)
	assert.Contains(t, body, `email_send_attempts_total{result="success"} 1`)
}

func TestMetrics_RegisterDBStats(t *testing.T) {
	m := New()

	// sql.Open does not dial, so pool stats are available without a server.
	db, err := sql.Open("pgx", "postgres://contacts@127.0.0.1:1/contacts")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m.RegisterDBStats("primary", db)

	assert.Contains(t, scrape(t, m), `go_sql_open_connections{db_name="primary"} 0`)
}
