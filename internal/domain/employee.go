package domain

import "time"

// EmployeeRole is a member of the configured role vocabulary.
type EmployeeRole = string

// Well-known role labels. The vocabulary is open; these are the labels the
// routing and permission rules key on.
const (
	RoleHOD        EmployeeRole = "HOD"
	RoleTeamMember EmployeeRole = "Team Member"
	RoleCRM        EmployeeRole = "CRM"
	RoleAdmin      EmployeeRole = "Admin"
)

// Employee is a directory record tied to an identity-provider UID.
type Employee struct {
	ID           string
	Name         string
	Email        string
	Role         EmployeeRole
	Department   Department
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
