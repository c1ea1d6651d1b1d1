package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

func newDirectoryForTest(repo *fakeEmployeeRepo) *DirectoryService {
	logger := zap.NewNop()
	settings := NewSettingsService(newFakeSettingsRepo(domain.DefaultSettings()), &recordingDispatcher{}, logger)
	return NewDirectoryService(DirectoryDependencies{
		EmployeeRepo: repo,
		Settings:     settings,
		Dispatcher:   &recordingDispatcher{},
		Logger:       logger,
	})
}

func adminActor() auth.Actor {
	return auth.Actor{UID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestInviteEmployeeAsAdmin(t *testing.T) {
	repo := newFakeEmployeeRepo(domain.Employee{
		ID: "admin-1", Name: "Admin User", Email: "admin@example.com",
		Role: domain.RoleAdmin, Department: "Management", Active: true,
	})
	svc := newDirectoryForTest(repo)

	emp, err := svc.InviteEmployee(context.Background(), adminActor(), InviteEmployeeInput{
		Email:      "New.Member@Example.com",
		FullName:   "New Member",
		Role:       domain.RoleTeamMember,
		Department: "Technical",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.member@example.com", emp.Email)
	assert.True(t, emp.Active)
	assert.NotEmpty(t, emp.ID)
}

func TestInviteEmployeeDuplicateEmail(t *testing.T) {
	repo := newFakeEmployeeRepo(
		domain.Employee{ID: "admin-1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin, Department: "Management", Active: true},
		domain.Employee{ID: "e2", Name: "Existing", Email: "existing@example.com", Role: domain.RoleTeamMember, Department: "Technical", Active: true},
	)
	svc := newDirectoryForTest(repo)

	_, err := svc.InviteEmployee(context.Background(), adminActor(), InviteEmployeeInput{
		Email:      "existing@example.com",
		FullName:   "Existing Again",
		Role:       domain.RoleTeamMember,
		Department: "Technical",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestInviteEmployeeForbiddenForTeamMember(t *testing.T) {
	repo := newFakeEmployeeRepo(domain.Employee{
		ID: "tm-1", Name: "Tech Team 1", Email: "team.tech1@example.com",
		Role: domain.RoleTeamMember, Department: "Technical", Active: true,
	})
	svc := newDirectoryForTest(repo)

	_, err := svc.InviteEmployee(context.Background(), auth.Actor{UID: "tm-1", Email: "team.tech1@example.com", Role: domain.RoleTeamMember}, InviteEmployeeInput{
		Email:      "someone@example.com",
		FullName:   "Someone",
		Role:       domain.RoleTeamMember,
		Department: "Technical",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestInviteEmployeeAutoProvisionsFirstCaller(t *testing.T) {
	repo := newFakeEmployeeRepo() // empty directory
	svc := newDirectoryForTest(repo)

	caller := auth.Actor{UID: "first-uid", Email: "founder@example.com", Role: ""}
	emp, err := svc.InviteEmployee(context.Background(), caller, InviteEmployeeInput{
		Email:      "hire@example.com",
		FullName:   "First Hire",
		Role:       domain.RoleTeamMember,
		Department: "Technical",
	})
	require.NoError(t, err)
	assert.Equal(t, "hire@example.com", emp.Email)

	// The caller now exists as an Admin in Management.
	founder, err := repo.GetByEmail(context.Background(), "founder@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, founder.Role)
	assert.Equal(t, "Management", founder.Department)
}

func TestManageEmployeeStatusDisable(t *testing.T) {
	repo := newFakeEmployeeRepo(
		domain.Employee{ID: "admin-1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin, Department: "Management", Active: true},
		domain.Employee{ID: "e2", Name: "Target", Email: "target@example.com", Role: domain.RoleTeamMember, Department: "Technical", Active: true},
	)
	svc := newDirectoryForTest(repo)

	require.NoError(t, svc.ManageEmployeeStatus(context.Background(), adminActor(), "e2", EmployeeActionDisable))

	target, err := repo.GetByID(context.Background(), "e2")
	require.NoError(t, err)
	assert.False(t, target.Active)
}

func TestManageEmployeeStatusDelete(t *testing.T) {
	repo := newFakeEmployeeRepo(
		domain.Employee{ID: "admin-1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin, Department: "Management", Active: true},
		domain.Employee{ID: "e2", Name: "Target", Email: "target@example.com", Role: domain.RoleTeamMember, Department: "Technical", Active: true},
	)
	svc := newDirectoryForTest(repo)

	require.NoError(t, svc.ManageEmployeeStatus(context.Background(), adminActor(), "e2", EmployeeActionDelete))

	_, err := repo.GetByID(context.Background(), "e2")
	require.Error(t, err)
}

func TestManageEmployeeStatusSelfTargetForbidden(t *testing.T) {
	repo := newFakeEmployeeRepo(domain.Employee{
		ID: "admin-1", Name: "Admin User", Email: "admin@example.com",
		Role: domain.RoleAdmin, Department: "Management", Active: true,
	})
	svc := newDirectoryForTest(repo)

	err := svc.ManageEmployeeStatus(context.Background(), adminActor(), "admin-1", EmployeeActionDisable)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestManageEmployeeStatusRequiresAdmin(t *testing.T) {
	repo := newFakeEmployeeRepo(domain.Employee{
		ID: "e2", Name: "Target", Email: "target@example.com",
		Role: domain.RoleTeamMember, Department: "Technical", Active: true,
	})
	svc := newDirectoryForTest(repo)

	err := svc.ManageEmployeeStatus(context.Background(), auth.Actor{UID: "crm-1", Email: "crm@example.com", Role: domain.RoleCRM}, "e2", EmployeeActionDisable)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestManageEmployeeStatusUnknownAction(t *testing.T) {
	repo := newFakeEmployeeRepo(
		domain.Employee{ID: "admin-1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin, Department: "Management", Active: true},
		domain.Employee{ID: "e2", Name: "Target", Email: "target@example.com", Role: domain.RoleTeamMember, Department: "Technical", Active: true},
	)
	svc := newDirectoryForTest(repo)

	err := svc.ManageEmployeeStatus(context.Background(), adminActor(), "e2", EmployeeAction("promote"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestListTeamMembersFiltersByRole(t *testing.T) {
	repo := newFakeEmployeeRepo(
		domain.Employee{ID: "e1", Name: "HOD", Email: "hod@example.com", Role: domain.RoleHOD, Department: "Technical", Active: true},
		domain.Employee{ID: "e2", Name: "TM", Email: "tm@example.com", Role: domain.RoleTeamMember, Department: "Technical", Active: true},
	)
	svc := newDirectoryForTest(repo)

	list, err := svc.ListTeamMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tm@example.com", list[0].Email)
}
