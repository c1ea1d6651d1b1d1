package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/notification"
	"github.com/Shukladev7/escalation-tracker/internal/observability"
)

// NotificationService composes and sends email notifications. Every send is
// bounded by an explicit timeout so slow transport never stalls the caller.
type NotificationService struct {
	mailer      notification.Mailer
	logger      *zap.Logger
	metrics     *observability.Metrics
	sendTimeout time.Duration
}

// TaskAssignmentInput carries the fields of the team-member-assignment
// notification endpoint.
type TaskAssignmentInput struct {
	TeamMemberEmail string
	EscalationID    string
	CustomerName    string
	Department      string
	HODName         string
	Description     string
}

// NewNotificationService creates the service.
func NewNotificationService(mailer notification.Mailer, logger *zap.Logger, metrics *observability.Metrics, sendTimeout time.Duration) *NotificationService {
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}
	return &NotificationService{
		mailer:      mailer,
		logger:      logger,
		metrics:     metrics,
		sendTimeout: sendTimeout,
	}
}

// Send delivers one raw message.
func (n *NotificationService) Send(ctx context.Context, to, subject, body string) (notification.SendResult, error) {
	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	result, err := n.mailer.Send(sendCtx, notification.Message{
		To:      to,
		Subject: subject,
		Body:    body,
		HTML:    true,
	})
	if err != nil {
		n.logger.Error("notification send failed", zap.String("to", to), zap.Error(err))
		return result, err
	}
	if result.Skipped {
		n.logger.Info("notification skipped", zap.String("to", to), zap.String("subject", subject))
	}
	return result, nil
}

// SendTaskAssignment composes the team-member template and sends it.
func (n *NotificationService) SendTaskAssignment(ctx context.Context, input TaskAssignmentInput) (notification.SendResult, error) {
	subject, body, err := notification.RenderTaskAssignment(notification.TaskAssignmentEmail{
		EscalationID: input.EscalationID,
		CustomerName: input.CustomerName,
		Department:   input.Department,
		HODName:      input.HODName,
		Description:  input.Description,
		AssignedAt:   time.Now(),
	})
	if err != nil {
		return notification.SendResult{}, err
	}
	return n.Send(ctx, input.TeamMemberEmail, subject, body)
}

// Deliver composes and sends a pending outbox notification.
func (n *NotificationService) Deliver(ctx context.Context, pending domain.PendingNotification) (notification.SendResult, error) {
	var (
		subject string
		body    string
		err     error
	)
	switch pending.Kind {
	case domain.NotificationNewEscalation:
		subject, body, err = notification.RenderNewEscalation(notification.NewEscalationEmail{
			EscalationID: pending.Payload["escalation_id"],
			CustomerName: pending.Payload["customer_name"],
			Department:   pending.Payload["department"],
			AssignedAt:   pending.CreatedAt,
		})
	case domain.NotificationTaskAssignment:
		subject, body, err = notification.RenderTaskAssignment(notification.TaskAssignmentEmail{
			EscalationID: pending.Payload["escalation_id"],
			CustomerName: pending.Payload["customer_name"],
			Department:   pending.Payload["department"],
			HODName:      pending.Payload["hod_name"],
			Description:  pending.Payload["description"],
			AssignedAt:   pending.CreatedAt,
		})
	default:
		return notification.SendResult{}, fmt.Errorf("unknown notification kind %q", pending.Kind)
	}
	if err != nil {
		return notification.SendResult{}, err
	}

	result, sendErr := n.Send(ctx, pending.Recipient, subject, body)
	outcome := "sent"
	switch {
	case sendErr != nil:
		outcome = "failed"
	case result.Skipped:
		outcome = "skipped"
	}
	n.metrics.RecordNotification(string(pending.Kind), outcome)
	return result, sendErr
}
