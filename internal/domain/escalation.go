package domain

import "time"

// Department and EscalationStatus are open string sets. Valid members come
// from the runtime Settings vocabularies, not from compile-time enums, so
// administrators can reconfigure them without a redeploy.
type Department = string

// EscalationStatus is a member of the configured status vocabulary.
type EscalationStatus = string

// Comment is an immutable entry in an escalation's history.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// SystemAuthor is used for comments not attributable to a signed-in actor.
const SystemAuthor = "System"

// Escalation is the aggregate for a customer-reported issue routed to a
// department HOD.
type Escalation struct {
	ID                      string
	CustomerName            string
	CustomerEmail           string
	BuildingName            string
	FlatOrOfficeNumber      string
	Department              Department
	Description             string
	Status                  EscalationStatus
	StartDate               time.Time
	EndDate                 *time.Time
	AssignedTo              string // HOD display name, "<name> (HOD)"
	HODEmail                string
	AssignedTeamMemberEmail *string
	History                 []Comment
	InvolvedUsers           []string
	CreatedBy               string
}

// Involves reports whether the given email has visibility on the escalation.
func (e *Escalation) Involves(email string) bool {
	for _, u := range e.InvolvedUsers {
		if u == email {
			return true
		}
	}
	return false
}
