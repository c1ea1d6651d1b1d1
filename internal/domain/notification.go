package domain

import "time"

// NotificationKind selects the email template for an outbox entry.
type NotificationKind string

const (
	NotificationNewEscalation  NotificationKind = "new_escalation"
	NotificationTaskAssignment NotificationKind = "task_assignment"
)

// OutboxStatus tracks delivery progress of a pending notification.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxSkipped OutboxStatus = "SKIPPED"
	OutboxFailed  OutboxStatus = "FAILED"
)

// PendingNotification is a side-effect intent persisted in the same
// transaction as the mutation that caused it, and delivered asynchronously.
// Delivery failure never unwinds the originating mutation.
type PendingNotification struct {
	ID            string
	Kind          NotificationKind
	Recipient     string
	EscalationID  string
	Payload       map[string]string
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}
