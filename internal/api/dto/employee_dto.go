package dto

// InviteEmployeeRequest payload for directory invites.
type InviteEmployeeRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// ManageEmployeeRequest payload for privileged status changes.
type ManageEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
	Action     string `json:"action"`
}

// EmployeeResponse is the API view of a directory record.
type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Active     bool   `json:"active"`
}
