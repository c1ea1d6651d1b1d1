package notification

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// NewEscalationEmail carries the fields of the HOD routing notification.
type NewEscalationEmail struct {
	EscalationID string
	CustomerName string
	Department   string
	AssignedAt   time.Time
}

// TaskAssignmentEmail carries the fields of the team-member notification.
type TaskAssignmentEmail struct {
	EscalationID string
	CustomerName string
	Department   string
	HODName      string
	Description  string
	AssignedAt   time.Time
}

var newEscalationTmpl = template.Must(template.New("new_escalation").Parse(`<!DOCTYPE html>
<html>
<body>
  <div style="max-width:600px;margin:0 auto;padding:20px;font-family:Arial,sans-serif;color:#333">
    <div style="background-color:#f8f9fa;padding:20px;border-radius:8px">
      <h2>New Escalation Assignment</h2>
    </div>
    <p>Dear HOD,</p>
    <p>A new escalation has been assigned to your department and requires your attention.</p>
    <h3>Escalation Details:</h3>
    <ul>
      <li><strong>Escalation ID:</strong> #{{.EscalationID}}</li>
      <li><strong>Department:</strong> {{.Department}}</li>
      <li><strong>Customer:</strong> {{.CustomerName}}</li>
      <li><strong>Assigned:</strong> {{.AssignedAt.Format "Jan 2, 2006 15:04"}}</li>
    </ul>
    <p>Please review this escalation and take the necessary action at your earliest convenience.</p>
    <div style="margin-top:30px;padding-top:20px;border-top:1px solid #dee2e6">
      <p>Thank you,<br><strong>Escalation Tracker System</strong></p>
      <p><small>This is an automated message. Please do not reply to this email.</small></p>
    </div>
  </div>
</body>
</html>`))

var taskAssignmentTmpl = template.Must(template.New("task_assignment").Parse(`<!DOCTYPE html>
<html>
<body>
  <div style="max-width:600px;margin:0 auto;padding:20px;font-family:Arial,sans-serif;color:#333">
    <div style="background-color:#007bff;padding:20px;border-radius:8px;color:white">
      <h2>New Task Assignment</h2>
    </div>
    <p>Dear Team Member,</p>
    <p>You have been assigned a new escalation task by {{.HODName}} (HOD).</p>
    <h3>Task Details:</h3>
    <ul>
      <li><strong>Escalation ID:</strong> #{{.EscalationID}}</li>
      <li><strong>Department:</strong> {{.Department}}</li>
      <li><strong>Customer:</strong> {{.CustomerName}}</li>
      <li><strong>Assigned by:</strong> {{.HODName}}</li>
      <li><strong>Assigned on:</strong> {{.AssignedAt.Format "Jan 2, 2006 15:04"}}</li>
    </ul>
    <h3>Description:</h3>
    <p>{{.Description}}</p>
    <p>Please review this escalation and begin working on it immediately. You can update the status and add comments as you progress.</p>
    <div style="margin-top:30px;padding-top:20px;border-top:1px solid #dee2e6">
      <p>Thank you,<br><strong>Escalation Tracker System</strong></p>
      <p><small>This is an automated message. Please do not reply to this email.</small></p>
    </div>
  </div>
</body>
</html>`))

// RenderNewEscalation produces the subject and HTML body for the HOD routing
// notification.
func RenderNewEscalation(data NewEscalationEmail) (subject, body string, err error) {
	subject = fmt.Sprintf("New Escalation Assigned: #%s", data.EscalationID)
	var sb strings.Builder
	if err := newEscalationTmpl.Execute(&sb, data); err != nil {
		return "", "", err
	}
	return subject, sb.String(), nil
}

// RenderTaskAssignment produces the subject and HTML body for the team-member
// assignment notification.
func RenderTaskAssignment(data TaskAssignmentEmail) (subject, body string, err error) {
	subject = fmt.Sprintf("New Task Assignment: Escalation #%s", data.EscalationID)
	var sb strings.Builder
	if err := taskAssignmentTmpl.Execute(&sb, data); err != nil {
		return "", "", err
	}
	return subject, sb.String(), nil
}
