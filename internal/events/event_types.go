package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEscalationCreated  EventType = "escalation_created"
	EventStatusUpdated      EventType = "escalation_status_updated"
	EventCommentAdded       EventType = "escalation_comment_added"
	EventTeamMemberAssigned EventType = "escalation_team_member_assigned"
	EventEndDateSet         EventType = "escalation_end_date_set"
	EventEmployeeChanged    EventType = "employee_changed"
	EventSettingsChanged    EventType = "settings_changed"
)

// Actor identifies who triggered an event. Email is empty for system actions.
type Actor struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	EscalationID string      `json:"escalation_id,omitempty"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// EscalationCreatedPayload payload.
type EscalationCreatedPayload struct {
	Department   string `json:"department"`
	Status       string `json:"status"`
	CustomerName string `json:"customer_name"`
	HODEmail     string `json:"hod_email"`
}

// StatusUpdatedPayload payload.
type StatusUpdatedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Comment   string `json:"comment,omitempty"`
}

// TeamMemberAssignedPayload payload.
type TeamMemberAssignedPayload struct {
	TeamMemberEmail string `json:"team_member_email"`
	HODName         string `json:"hod_name"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	Author      string `json:"author"`
	TextPreview string `json:"text_preview"`
}

// EmployeeChangedPayload payload.
type EmployeeChangedPayload struct {
	EmployeeID string `json:"employee_id"`
	Action     string `json:"action"`
}

// SettingsChangedPayload payload.
type SettingsChangedPayload struct {
	Vocabulary string `json:"vocabulary"`
	Action     string `json:"action"`
}
