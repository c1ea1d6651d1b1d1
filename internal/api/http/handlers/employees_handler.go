package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// EmployeesHandler exposes the directory endpoints.
type EmployeesHandler struct {
	directory *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directory *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{directory: directory}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	list, err := h.directory.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponses(list)})
}

// ListTeamMembers handles GET /employees/team-members.
func (h *EmployeesHandler) ListTeamMembers(c *fiber.Ctx) error {
	list, err := h.directory.ListTeamMembers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponses(list)})
}

// Invite handles POST /employees/invite.
func (h *EmployeesHandler) Invite(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.InviteEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	emp, err := h.directory.InviteEmployee(c.UserContext(), actor, service.InviteEmployeeInput{
		Email:      req.Email,
		FullName:   req.FullName,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeResponse(emp)})
}

// Manage handles POST /employees/manage.
func (h *EmployeesHandler) Manage(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req dto.ManageEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EmployeeID == "" || req.Action == "" {
		return fiber.NewError(http.StatusBadRequest, "employeeId and action required")
	}

	if err := h.directory.ManageEmployeeStatus(c.UserContext(), actor, req.EmployeeID, service.EmployeeAction(req.Action)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Action}})
}

func employeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Email:      emp.Email,
		Role:       emp.Role,
		Department: emp.Department,
		Active:     emp.Active,
	}
}

func employeeResponses(list []domain.Employee) []dto.EmployeeResponse {
	resp := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		resp = append(resp, employeeResponse(&list[i]))
	}
	return resp
}
