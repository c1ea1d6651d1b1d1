package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/events"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

// minStatusCommentLen is the minimum comment length accepted on a status
// update. Enforced at the engine boundary, not just in the UI.
const minStatusCommentLen = 10

// EscalationService is the escalation lifecycle engine. It owns creation,
// status transitions, assignment and history appends, and decides which
// notifications fire on which transition. Notification intents are persisted
// in the same transaction as the mutation and delivered asynchronously;
// delivery failure never unwinds a mutation.
type EscalationService struct {
	escalations repository.EscalationRepository
	directory   *DirectoryService
	settings    *SettingsService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// EscalationDependencies bundles requirements for the engine.
type EscalationDependencies struct {
	EscalationRepo repository.EscalationRepository
	Directory      *DirectoryService
	Settings       *SettingsService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// EscalationCreateInput describes escalation creation payload.
type EscalationCreateInput struct {
	CustomerName       string
	CustomerEmail      string
	BuildingName       string
	FlatOrOfficeNumber string
	Department         string
	Description        string
	TeamMemberEmail    *string
}

// NewEscalationService constructs the engine.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		escalations: deps.EscalationRepo,
		directory:   deps.Directory,
		settings:    deps.Settings,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// CreateEscalation validates routing, persists the ticket and enqueues the
// HOD notification. Returns the new escalation's identifier.
func (s *EscalationService) CreateEscalation(ctx context.Context, actor auth.Actor, input EscalationCreateInput) (string, error) {
	if !actor.Authenticated() {
		return "", apperrors.NewUnauthorized("sign in required")
	}

	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.Description = strings.TrimSpace(input.Description)
	if input.CustomerName == "" || input.CustomerEmail == "" || input.Department == "" || input.Description == "" {
		return "", apperrors.NewValidationError("customerName, customerEmail, department, and description are required", nil)
	}

	settings := s.settings.Get(ctx)
	if !settings.Contains(domain.VocabularyDepartments, input.Department) {
		return "", apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}

	hod, err := s.directory.FindHOD(ctx, input.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewRoutingError(input.Department)
		}
		return "", err
	}

	now := s.now()
	involved := []string{actor.Email, hod.Email}
	if input.TeamMemberEmail != nil && *input.TeamMemberEmail != "" {
		involved = append(involved, *input.TeamMemberEmail)
	}

	esc := &domain.Escalation{
		ID:                      uuid.NewString(),
		CustomerName:            input.CustomerName,
		CustomerEmail:           input.CustomerEmail,
		BuildingName:            strings.TrimSpace(input.BuildingName),
		FlatOrOfficeNumber:      strings.TrimSpace(input.FlatOrOfficeNumber),
		Department:              input.Department,
		Description:             input.Description,
		Status:                  settings.DefaultStatus(),
		StartDate:               now,
		EndDate:                 nil,
		AssignedTo:              fmt.Sprintf("%s (HOD)", hod.Name),
		HODEmail:                hod.Email,
		AssignedTeamMemberEmail: input.TeamMemberEmail,
		History:                 []domain.Comment{},
		InvolvedUsers:           dedupe(involved),
		CreatedBy:               actor.Email,
	}

	pending := &domain.PendingNotification{
		ID:            uuid.NewString(),
		Kind:          domain.NotificationNewEscalation,
		Recipient:     hod.Email,
		EscalationID:  esc.ID,
		Status:        domain.OutboxPending,
		NextAttemptAt: now,
		Payload: map[string]string{
			"escalation_id": esc.ID,
			"customer_name": esc.CustomerName,
			"department":    esc.Department,
		},
	}

	if err := s.escalations.Create(ctx, esc, pending); err != nil {
		return "", apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, actor, events.EventEscalationCreated, esc.ID, events.EscalationCreatedPayload{
		Department:   esc.Department,
		Status:       esc.Status,
		CustomerName: esc.CustomerName,
		HODEmail:     esc.HODEmail,
	})
	return esc.ID, nil
}

// UpdateStatus transitions the escalation and appends a synthesized comment.
// The status machine is deliberately open: any configured status may move to
// any other. endDate is never set here, even for terminal-looking statuses;
// SetEndDate is the explicit mechanism for that.
func (s *EscalationService) UpdateStatus(ctx context.Context, actor auth.Actor, id, newStatus, commentText string) error {
	if !actor.Authenticated() {
		return apperrors.NewUnauthorized("sign in required")
	}
	if len(strings.TrimSpace(commentText)) < minStatusCommentLen {
		return apperrors.NewValidationError(
			fmt.Sprintf("comment must be at least %d characters", minStatusCommentLen), nil)
	}

	settings := s.settings.Get(ctx)
	if !settings.Contains(domain.VocabularyStatuses, newStatus) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	esc, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		Author:    commentAuthor(actor),
		Timestamp: s.now(),
		Text:      fmt.Sprintf("Status updated to: %s. %s", newStatus, commentText),
	}
	if err := s.escalations.UpdateStatus(ctx, id, newStatus, comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("escalation", map[string]any{"escalation_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}

	// No notification on status change; only creation and assignment notify.
	s.publish(ctx, actor, events.EventStatusUpdated, id, events.StatusUpdatedPayload{
		OldStatus: esc.Status,
		NewStatus: newStatus,
		Comment:   commentText,
	})
	return nil
}

// AssignTeamMember delegates the escalation to a team member, appends a
// comment, extends involvedUsers (idempotently) and enqueues the assignment
// notification. The notification carries the HOD's display name, not the
// actor's.
func (s *EscalationService) AssignTeamMember(ctx context.Context, actor auth.Actor, id, teamMemberEmail string) error {
	if !actor.Authenticated() {
		return apperrors.NewUnauthorized("sign in required")
	}
	teamMemberEmail = strings.TrimSpace(teamMemberEmail)
	if teamMemberEmail == "" {
		return apperrors.NewValidationError("teamMemberEmail is required", nil)
	}

	esc, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	comment := domain.Comment{
		ID:        uuid.NewString(),
		Author:    commentAuthor(actor),
		Timestamp: now,
		Text:      fmt.Sprintf("Assigned to team member: %s", teamMemberEmail),
	}
	pending := &domain.PendingNotification{
		ID:            uuid.NewString(),
		Kind:          domain.NotificationTaskAssignment,
		Recipient:     teamMemberEmail,
		EscalationID:  esc.ID,
		Status:        domain.OutboxPending,
		NextAttemptAt: now,
		Payload: map[string]string{
			"escalation_id": esc.ID,
			"customer_name": esc.CustomerName,
			"department":    esc.Department,
			"hod_name":      esc.AssignedTo,
			"description":   esc.Description,
		},
	}

	if err := s.escalations.AssignTeamMember(ctx, id, teamMemberEmail, comment, pending); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("escalation", map[string]any{"escalation_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, actor, events.EventTeamMemberAssigned, id, events.TeamMemberAssignedPayload{
		TeamMemberEmail: teamMemberEmail,
		HODName:         esc.AssignedTo,
	})
	return nil
}

// AddComment appends a free-form comment. The id and timestamp are assigned
// here, at the point of durable write, never by the caller.
func (s *EscalationService) AddComment(ctx context.Context, actor auth.Actor, id, text string) (*domain.Comment, error) {
	if !actor.Authenticated() {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("text is required", nil)
	}

	if _, err := s.getExisting(ctx, id); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		Author:    commentAuthor(actor),
		Timestamp: s.now(),
		Text:      text,
	}
	if err := s.escalations.AppendComment(ctx, id, comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("escalation", map[string]any{"escalation_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, actor, events.EventCommentAdded, id, events.CommentAddedPayload{
		CommentID:   comment.ID,
		Author:      comment.Author,
		TextPreview: textPreview(comment.Text, 120),
	})
	return &comment, nil
}

// SetEndDate records the closing date. This is the explicit caller-provided
// mechanism; status transitions never touch endDate on their own.
func (s *EscalationService) SetEndDate(ctx context.Context, actor auth.Actor, id string, endDate time.Time) error {
	if !actor.Authenticated() {
		return apperrors.NewUnauthorized("sign in required")
	}
	if err := s.escalations.SetEndDate(ctx, id, endDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("escalation", map[string]any{"escalation_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, actor, events.EventEndDateSet, id, nil)
	return nil
}

// List returns all escalations, newest first.
func (s *EscalationService) List(ctx context.Context) ([]domain.Escalation, error) {
	list, err := s.escalations.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// Get fetches one escalation.
func (s *EscalationService) Get(ctx context.Context, id string) (*domain.Escalation, error) {
	return s.getExisting(ctx, id)
}

func (s *EscalationService) getExisting(ctx context.Context, id string) (*domain.Escalation, error) {
	esc, err := s.escalations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("escalation", map[string]any{"escalation_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return esc, nil
}

func (s *EscalationService) publish(ctx context.Context, actor auth.Actor, eventType events.EventType, escalationID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		EscalationID: escalationID,
		Actor:        events.Actor{Email: actor.Email, Role: actor.Role},
		Timestamp:    s.now(),
		Payload:      payload,
	})
}

func commentAuthor(actor auth.Actor) string {
	if actor.Email == "" {
		return domain.SystemAuthor
	}
	return actor.Email
}

func dedupe(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
