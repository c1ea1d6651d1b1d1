package service

import (
	"context"
	"errors"
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

// DirectoryService exposes the employee directory and the privileged
// invite/disable/delete operations. Role requirements are enforced here,
// server-side; any client-side role check is advisory only.
type DirectoryService struct {
	employees  repository.EmployeeRepository
	settings   *SettingsService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DirectoryDependencies bundles requirements for the directory service.
type DirectoryDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Settings     *SettingsService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// InviteEmployeeInput describes a directory invite.
type InviteEmployeeInput struct {
	Email      string
	FullName   string
	Role       string
	Department string
}

// EmployeeAction is a privileged lifecycle operation on a directory record.
type EmployeeAction string

const (
	EmployeeActionDisable EmployeeAction = "disable"
	EmployeeActionDelete  EmployeeAction = "delete"
)

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		employees:  deps.EmployeeRepo,
		settings:   deps.Settings,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListEmployees returns the directory ordered by display name.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// FindHOD returns the employee with role HOD mapped to the department, or a
// not-found error when the department has no HOD.
func (s *DirectoryService) FindHOD(ctx context.Context, department string) (*domain.Employee, error) {
	hod, err := s.employees.FindHOD(ctx, department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return hod, nil
}

// ListTeamMembers filters the directory by the Team Member role.
func (s *DirectoryService) ListTeamMembers(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.ListByRole(ctx, domain.RoleTeamMember)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return list, nil
}

// InviteEmployee provisions a directory record for a new employee. The caller
// must hold an Admin or CRM role claim; a first caller without a directory
// record is auto-provisioned as Admin.
func (s *DirectoryService) InviteEmployee(ctx context.Context, actor auth.Actor, input InviteEmployeeInput) (*domain.Employee, error) {
	if !actor.Authenticated() {
		return nil, apperrors.NewUnauthorized("sign in required")
	}

	callerRole, err := s.resolveCallerRole(ctx, actor)
	if err != nil {
		return nil, err
	}
	if callerRole != domain.RoleAdmin && callerRole != domain.RoleCRM {
		return nil, apperrors.NewForbidden("admin or CRM role required to invite employees")
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Email == "" || input.FullName == "" || input.Role == "" || input.Department == "" {
		return nil, apperrors.NewValidationError("email, fullName, role, and department are required", nil)
	}

	settings := s.settings.Get(ctx)
	if !settings.Contains(domain.VocabularyRoles, input.Role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if !settings.Contains(domain.VocabularyDepartments, input.Department) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}

	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("employee already exists", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	emp := &domain.Employee{
		ID:         uuid.NewString(),
		Name:       input.FullName,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		Active:     true,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, actor, emp.ID, "invited")
	return emp, nil
}

// ManageEmployeeStatus disables or deletes a directory record. Admin only;
// self-targeting is forbidden.
func (s *DirectoryService) ManageEmployeeStatus(ctx context.Context, actor auth.Actor, employeeID string, action EmployeeAction) error {
	if !actor.Authenticated() {
		return apperrors.NewUnauthorized("sign in required")
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required to manage employee status")
	}
	if employeeID == "" {
		return apperrors.NewValidationError("employeeId and action are required", nil)
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return apperrors.NewPersistenceError(err)
	}
	if emp.ID == actor.UID || strings.EqualFold(emp.Email, actor.Email) {
		return apperrors.NewForbidden("you cannot perform this action on your own account")
	}

	switch action {
	case EmployeeActionDisable:
		if err := s.employees.SetActive(ctx, employeeID, false); err != nil {
			return apperrors.NewPersistenceError(err)
		}
	case EmployeeActionDelete:
		if err := s.employees.Delete(ctx, employeeID); err != nil {
			return apperrors.NewPersistenceError(err)
		}
	default:
		return apperrors.NewValidationError("invalid action specified", map[string]any{"action": string(action)})
	}

	s.publish(ctx, actor, employeeID, string(action))
	return nil
}

// resolveCallerRole returns the caller's effective role, auto-provisioning a
// first-time caller as Admin in Management the way the original bootstrap
// flow did.
func (s *DirectoryService) resolveCallerRole(ctx context.Context, actor auth.Actor) (string, error) {
	emp, err := s.employees.GetByEmail(ctx, strings.ToLower(actor.Email))
	if err == nil {
		return emp.Role, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewPersistenceError(err)
	}

	name := actor.Email
	if actor.UID != "" {
		name = "Admin User"
	}
	first := &domain.Employee{
		ID:         actor.UID,
		Name:       name,
		Email:      strings.ToLower(actor.Email),
		Role:       domain.RoleAdmin,
		Department: "Management",
		Active:     true,
	}
	if first.ID == "" {
		first.ID = uuid.NewString()
	}
	if err := s.employees.Create(ctx, first); err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, actor, first.ID, "auto-provisioned")
	return domain.RoleAdmin, nil
}

func (s *DirectoryService) publish(ctx context.Context, actor auth.Actor, employeeID, action string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEmployeeChanged,
		Actor:     events.Actor{Email: actor.Email, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.EmployeeChangedPayload{
			EmployeeID: employeeID,
			Action:     action,
		},
	})
}
