package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "contacts/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	deliverycontext.SetRequestID(c, "req-1")

	return c, rec
}

func TestSuccess(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Success(c, http.StatusCreated, map[string]string{"id": "1"}, "Created"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 201, body["status"])
	assert.Equal(t, "Created", body["message"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
	assert.Equal(t, map[string]any{"request_id": "req-1"}, body["meta"])
}

func TestError_HidesDetailsForAuthAndServerErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		details     any
		wantDetails bool
	}{
		{name: "bad request keeps details", status: http.StatusBadRequest, details: "name: required", wantDetails: true},
		{name: "unauthorized drops details", status: http.StatusUnauthorized, details: "jwt: signature"},
		{name: "server error drops details", status: http.StatusInternalServerError, details: "pq: boom"},
		{name: "empty string is omitted", status: http.StatusBadRequest, details: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()

			require.NoError(t, Error(c, tt.status, "CODE", "message", tt.details))

			var body struct {
				Status  int            `json:"status"`
				Message string         `json:"message"`
				Error   map[string]any `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "message", body.Message)
			assert.Equal(t, "CODE", body.Error["code"])
			_, has := body.Error["details"]
			assert.Equal(t, tt.wantDetails, has)
		})
	}
}
