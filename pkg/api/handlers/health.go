package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/cache"
	"github.com/coweringg/LawCaseAI/pkg/database"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	db      *database.Client
	cache   *cache.Client
	version string
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(db *database.Client, cacheClient *cache.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheClient, version: version}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["mongodb"] = "down"
		healthy = false
	} else {
		checks["mongodb"] = "up"
	}

	if h.cache != nil {
		if err := h.cache.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status":  map[bool]string{true: "ok", false: "degraded"}[healthy],
		"version": h.version,
		"checks":  checks,
		"time":    time.Now().UTC(),
	})
}
