package dto

// SendNotificationRequest payload for the raw send endpoint.
type SendNotificationRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TaskAssignmentNotificationRequest payload for the composed assignment email.
type TaskAssignmentNotificationRequest struct {
	TeamMemberEmail string `json:"teamMemberEmail"`
	EscalationID    string `json:"escalationId"`
	CustomerName    string `json:"customerName"`
	Department      string `json:"department"`
	HODName         string `json:"hodName"`
	Description     string `json:"description"`
}

// SendResultResponse reports the outcome of a send attempt.
type SendResultResponse struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Message string `json:"message"`
}

// SuggestDepartmentRequest payload for the classification endpoint.
type SuggestDepartmentRequest struct {
	Description string `json:"description"`
}

// SuggestDepartmentResponse carries the suggested department; empty when the
// collaborator had no in-vocabulary answer.
type SuggestDepartmentResponse struct {
	Department string `json:"department"`
}
