package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/redislock"
)

type stubStorage struct {
	err error
}

func (s stubStorage) Ping(context.Context) error { return s.err }

func (s stubStorage) Stats() map[string]any { return map[string]any{"open_connections": 1} }

func ready(t *testing.T, h *handler.HealthHandler) (int, map[string]any) {
	t.Helper()
	router := gin.New()
	router.GET("/health/ready", h.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	return w.Code, decode[map[string]any](t, w)
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Storage ping failure is unavailable", func(t *testing.T) {
		code, body := ready(t, handler.NewHealthHandler("postgres", stubStorage{err: errors.New("dial tcp: refused")}))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", body["status"])
		assert.Equal(t, "postgres", body["storage"])
	})

	t.Run("Storage stats are reported", func(t *testing.T) {
		code, body := ready(t, handler.NewHealthHandler("postgres", stubStorage{}))
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "pool")
	})

	t.Run("Redis leases are checked", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		locks := redislock.NewLockRepository(client, "", logger.NewNoopLogger())
		h := handler.NewHealthHandler("memory", nil).WithLocks("redis", locks)

		code, body := ready(t, h)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "redis", body["locks"])

		mr.Close()
		code, body = ready(t, h)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", body["status"])
		assert.NotEmpty(t, body["error"])
	})
}
