package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Backend   string    `json:"backend"`
	Storage   string    `json:"storage,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	backend     string
	store       repository.Pinger
}

// NewHealthHandler reports on the configured storage backend. store may be nil
// when the backend has no cheap liveness check.
func NewHealthHandler(serviceName, version, backend string, store repository.Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		backend:     backend,
		store:       store,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus := "unchecked"
	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.store.Ping(pingCtx); err != nil {
			storeStatus = "down"
		} else {
			storeStatus = "up"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if storeStatus == "down" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Backend:   h.backend,
		Storage:   storeStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
