package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// SuggestHandler exposes the department classification endpoint.
type SuggestHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestHandler constructs handler.
func NewSuggestHandler(suggestions *service.SuggestionService) *SuggestHandler {
	return &SuggestHandler{suggestions: suggestions}
}

// SuggestDepartment handles POST /ai/suggest-department.
func (h *SuggestHandler) SuggestDepartment(c *fiber.Ctx) error {
	var req dto.SuggestDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Description == "" {
		return fiber.NewError(http.StatusBadRequest, "description required")
	}

	department, err := h.suggestions.SuggestDepartment(c.UserContext(), req.Description)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to get suggestion from AI")
	}
	return c.JSON(fiber.Map{"data": dto.SuggestDepartmentResponse{Department: department}})
}
