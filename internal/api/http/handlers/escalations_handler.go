package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// EscalationsHandler exposes the escalation lifecycle endpoints.
type EscalationsHandler struct {
	escalations *service.EscalationService
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalations *service.EscalationService) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations}
}

// Create handles POST /escalations.
func (h *EscalationsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.EscalationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	id, err := h.escalations.CreateEscalation(c.UserContext(), actor, service.EscalationCreateInput{
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		BuildingName:       req.BuildingName,
		FlatOrOfficeNumber: req.FlatOrOfficeNumber,
		Department:         req.Department,
		Description:        req.Description,
		TeamMemberEmail:    req.TeamMemberEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// List handles GET /escalations.
func (h *EscalationsHandler) List(c *fiber.Ctx) error {
	list, err := h.escalations.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.EscalationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, escalationResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /escalations/:id.
func (h *EscalationsHandler) Get(c *fiber.Ctx) error {
	esc, err := h.escalations.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": escalationResponse(esc)})
}

// UpdateStatus handles PATCH /escalations/:id/status.
func (h *EscalationsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.escalations.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}

// Assign handles POST /escalations/:id/assign.
func (h *EscalationsHandler) Assign(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.AssignTeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.escalations.AssignTeamMember(c.UserContext(), actor, c.Params("id"), req.TeamMemberEmail); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"assignedTeamMemberEmail": req.TeamMemberEmail}})
}

// AddComment handles POST /escalations/:id/comments.
func (h *EscalationsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	comment, err := h.escalations.AddComment(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(*comment)})
}

// SetEndDate handles PATCH /escalations/:id/end-date.
func (h *EscalationsHandler) SetEndDate(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.EndDateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EndDate.IsZero() {
		return fiber.NewError(http.StatusBadRequest, "endDate required")
	}

	if err := h.escalations.SetEndDate(c.UserContext(), actor, c.Params("id"), req.EndDate); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"endDate": req.EndDate}})
}

func requireActor(c *fiber.Ctx) (auth.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.Actor{}, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal.Actor(), nil
}

func commentResponse(comment domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		Author:    comment.Author,
		Timestamp: comment.Timestamp,
		Text:      comment.Text,
	}
}

func escalationResponse(esc *domain.Escalation) dto.EscalationResponse {
	history := make([]dto.CommentResponse, 0, len(esc.History))
	for _, comment := range esc.History {
		history = append(history, commentResponse(comment))
	}
	return dto.EscalationResponse{
		ID:                      esc.ID,
		CustomerName:            esc.CustomerName,
		CustomerEmail:           esc.CustomerEmail,
		BuildingName:            esc.BuildingName,
		FlatOrOfficeNumber:      esc.FlatOrOfficeNumber,
		Department:              esc.Department,
		Description:             esc.Description,
		Status:                  esc.Status,
		StartDate:               esc.StartDate,
		EndDate:                 esc.EndDate,
		AssignedTo:              esc.AssignedTo,
		HODEmail:                esc.HODEmail,
		AssignedTeamMemberEmail: esc.AssignedTeamMemberEmail,
		History:                 history,
		InvolvedUsers:           esc.InvolvedUsers,
		CreatedBy:               esc.CreatedBy,
	}
}
