package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/projection"
)

// FeedHandler serves the projection snapshots. Unlike the direct list
// endpoints these reads never touch the database; they answer from the
// eventually consistent in-process snapshot.
type FeedHandler struct {
	projection *projection.Manager
}

// NewFeedHandler constructs handler.
func NewFeedHandler(projectionManager *projection.Manager) *FeedHandler {
	return &FeedHandler{projection: projectionManager}
}

// Escalations handles GET /feed/escalations.
func (h *FeedHandler) Escalations(c *fiber.Ctx) error {
	list := h.projection.Escalations()
	resp := make([]dto.EscalationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, escalationResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Employees handles GET /feed/employees.
func (h *FeedHandler) Employees(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": employeeResponses(h.projection.Employees())})
}

// Settings handles GET /feed/settings.
func (h *FeedHandler) Settings(c *fiber.Ctx) error {
	settings := h.projection.Settings()
	return c.JSON(fiber.Map{"data": dto.SettingsResponse{
		Departments: settings.Departments,
		Statuses:    settings.Statuses,
		Roles:       settings.Roles,
	}})
}
