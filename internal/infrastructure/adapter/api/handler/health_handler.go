package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StorageChecker reports whether a backing store is reachable
type StorageChecker interface {
	Ping(ctx context.Context) error
	Stats() map[string]any
}

// LockChecker reports whether an external lease store is reachable
type LockChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	storage     StorageChecker // nil for the memory driver
	driver      string
	locks       LockChecker // nil when leases live in the transaction store
	locksDriver string
}

// NewHealthHandler creates a health handler; storage may be nil
func NewHealthHandler(driver string, storage StorageChecker) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver}
}

// WithLocks adds an external lease store to the readiness check
func (h *HealthHandler) WithLocks(driver string, locks LockChecker) *HealthHandler {
	h.locks = locks
	h.locksDriver = driver
	return h
}

// Live handles GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ready", "storage": h.driver}
	if h.locks != nil {
		body["locks"] = h.locksDriver
	}

	if h.storage != nil {
		if err := h.storage.Ping(c.Request.Context()); err != nil {
			body["status"] = "unavailable"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["pool"] = h.storage.Stats()
	}
	if h.locks != nil {
		if err := h.locks.Ping(c.Request.Context()); err != nil {
			body["status"] = "unavailable"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}
