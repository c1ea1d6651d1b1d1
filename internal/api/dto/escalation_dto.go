package dto

import "time"

// EscalationCreateRequest payload.
type EscalationCreateRequest struct {
	CustomerName       string  `json:"customerName"`
	CustomerEmail      string  `json:"customerEmail"`
	BuildingName       string  `json:"buildingName"`
	FlatOrOfficeNumber string  `json:"flatOrOfficeNumber"`
	Department         string  `json:"department"`
	Description        string  `json:"description"`
	TeamMemberEmail    *string `json:"teamMemberEmail,omitempty"`
}

// StatusUpdateRequest payload for status transitions.
type StatusUpdateRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// AssignTeamMemberRequest payload.
type AssignTeamMemberRequest struct {
	TeamMemberEmail string `json:"teamMemberEmail"`
}

// CommentRequest payload for free-form comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// EndDateRequest payload for closing an escalation.
type EndDateRequest struct {
	EndDate time.Time `json:"endDate"`
}

// CommentResponse is one history entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// EscalationResponse is the API view of an escalation.
type EscalationResponse struct {
	ID                      string            `json:"id"`
	CustomerName            string            `json:"customerName"`
	CustomerEmail           string            `json:"customerEmail"`
	BuildingName            string            `json:"buildingName"`
	FlatOrOfficeNumber      string            `json:"flatOrOfficeNumber"`
	Department              string            `json:"department"`
	Description             string            `json:"description"`
	Status                  string            `json:"status"`
	StartDate               time.Time         `json:"startDate"`
	EndDate                 *time.Time        `json:"endDate,omitempty"`
	AssignedTo              string            `json:"assignedTo"`
	HODEmail                string            `json:"hodEmail"`
	AssignedTeamMemberEmail *string           `json:"assignedTeamMemberEmail,omitempty"`
	History                 []CommentResponse `json:"history"`
	InvolvedUsers           []string          `json:"involvedUsers"`
	CreatedBy               string            `json:"createdBy"`
}
