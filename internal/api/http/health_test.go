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

	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func serveHealth(t *testing.T, h *HealthHandler, method string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	req := httptest.NewRequest(method, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("test-service", "1.0.0", "memory", kv.NewMemoryStore()), http.MethodGet)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "memory", resp.Backend)
	assert.Equal(t, "up", resp.Storage)
}

func TestHealthCheckStorageDown(t *testing.T) {
	_, resp := serveHealth(t, NewHealthHandler("test-service", "1.0.0", "redis", downStore{}), http.MethodGet)

	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Storage)
}

func TestHealthCheckWithoutStore(t *testing.T) {
	_, resp := serveHealth(t, NewHealthHandler("test-service", "1.0.0", "", nil), http.MethodGet)
	assert.Equal(t, "disabled", resp.Storage)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := serveHealth(t, NewHealthHandler("test-service", "1.0.0", "", nil), http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
