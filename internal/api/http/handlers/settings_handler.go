package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// SettingsHandler exposes the vocabulary endpoints.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings := h.settings.Get(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.SettingsResponse{
		Departments: settings.Departments,
		Statuses:    settings.Statuses,
		Roles:       settings.Roles,
	}})
}

// AddValue handles POST /settings/:vocabulary.
func (h *SettingsHandler) AddValue(c *fiber.Ctx) error {
	var req dto.VocabularyValueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.settings.AddValue(c.UserContext(), vocabularyParam(c), req.Value); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"value": req.Value}})
}

// UpdateValue handles PUT /settings/:vocabulary.
func (h *SettingsHandler) UpdateValue(c *fiber.Ctx) error {
	var req dto.VocabularyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.settings.UpdateValue(c.UserContext(), vocabularyParam(c), req.OldValue, req.NewValue); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"value": req.NewValue}})
}

// DeleteValue handles DELETE /settings/:vocabulary.
func (h *SettingsHandler) DeleteValue(c *fiber.Ctx) error {
	var req dto.VocabularyValueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.settings.DeleteValue(c.UserContext(), vocabularyParam(c), req.Value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": req.Value}})
}

func vocabularyParam(c *fiber.Ctx) domain.VocabularyType {
	return domain.VocabularyType(c.Params("vocabulary"))
}
