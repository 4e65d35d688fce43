package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func doHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthCheck(t *testing.T) {
	code, resp := doHealth(t, NewHealthHandler("briefing", "1.0.0", "file", pingFunc(func(context.Context) error { return nil })))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "up", resp.Storage)
	assert.Equal(t, "file", resp.Backend)

	code, resp = doHealth(t, NewHealthHandler("briefing", "1.0.0", "redis", pingFunc(func(context.Context) error { return errors.New("down") })))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "down", resp.Storage)

	code, resp = doHealth(t, NewHealthHandler("briefing", "1.0.0", "firestore", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unchecked", resp.Storage)
}
