package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNewEscalation(t *testing.T) {
	subject, body, err := RenderNewEscalation(NewEscalationEmail{
		EscalationID: "esc-42",
		CustomerName: "Alice Johnson",
		Department:   "Technical",
		AssignedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Escalation Assigned: #esc-42", subject)
	assert.Contains(t, body, "#esc-42")
	assert.Contains(t, body, "Alice Johnson")
	assert.Contains(t, body, "Technical")
	assert.Contains(t, body, "Mar 1, 2026 09:30")
}

func TestRenderTaskAssignment(t *testing.T) {
	subject, body, err := RenderTaskAssignment(TaskAssignmentEmail{
		EscalationID: "esc-42",
		CustomerName: "Alice Johnson",
		Department:   "Technical",
		HODName:      "Mr. Smith (HOD)",
		Description:  "Water pipe leaking in the kitchen.",
		AssignedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Task Assignment: Escalation #esc-42", subject)
	assert.Contains(t, body, "Mr. Smith (HOD)")
	assert.Contains(t, body, "Water pipe leaking in the kitchen.")
}

func TestRenderTaskAssignmentEscapesHTML(t *testing.T) {
	_, body, err := RenderTaskAssignment(TaskAssignmentEmail{
		EscalationID: "esc-1",
		Description:  `<script>alert("x")</script>`,
		AssignedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
