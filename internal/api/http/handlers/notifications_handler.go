package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/notification"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// NotificationsHandler exposes the direct send endpoints. Both endpoints are
// fire-and-forget from the caller's perspective: an unconfigured transport
// still answers success with skipped set.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// Send handles POST /notifications/send.
func (h *NotificationsHandler) Send(c *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.To == "" || req.Subject == "" || req.Body == "" {
		return fiber.NewError(http.StatusBadRequest, "to, subject and body required")
	}

	result, err := h.notifications.Send(c.UserContext(), req.To, req.Subject, req.Body)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to send notification")
	}
	return c.JSON(fiber.Map{"data": sendResultResponse(result)})
}

// SendTaskAssignment handles POST /notifications/team-member-assignment.
func (h *NotificationsHandler) SendTaskAssignment(c *fiber.Ctx) error {
	var req dto.TaskAssignmentNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TeamMemberEmail == "" || req.EscalationID == "" || req.CustomerName == "" ||
		req.Department == "" || req.HODName == "" || req.Description == "" {
		return fiber.NewError(http.StatusBadRequest, "all assignment fields are required")
	}

	result, err := h.notifications.SendTaskAssignment(c.UserContext(), service.TaskAssignmentInput{
		TeamMemberEmail: req.TeamMemberEmail,
		EscalationID:    req.EscalationID,
		CustomerName:    req.CustomerName,
		Department:      req.Department,
		HODName:         req.HODName,
		Description:     req.Description,
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to send notification")
	}
	return c.JSON(fiber.Map{"data": sendResultResponse(result)})
}

func sendResultResponse(result notification.SendResult) dto.SendResultResponse {
	return dto.SendResultResponse{
		Success: result.Success,
		Skipped: result.Skipped,
		Message: result.Message,
	}
}
