package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/persistence"
)

// pinger is anything with a readiness probe.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes. Readiness checks the
// escalation store and the change-feed broker; either one down means new
// sessions cannot be served correctly.
type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]pinger
}

// NewHealthHandler builds the handler over the service's dependencies.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps: map[string]pinger{
			"postgres": postgres,
			"redis":    redis,
		},
	}
}

// Live reports process liveness without touching dependencies.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready probes each dependency with a short deadline.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.Map{}
	ready := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			status[name] = err.Error()
			ready = false
		} else {
			status[name] = "ok"
		}
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": status,
			},
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": status})
}
