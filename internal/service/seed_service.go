package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
)

// SeedService populates an empty database with the default vocabularies, a
// starter directory and a few sample escalations. Seeding is idempotent: a
// non-empty directory short-circuits the whole run.
type SeedService struct {
	settings    repository.SettingsRepository
	employees   repository.EmployeeRepository
	escalations repository.EscalationRepository
	logger      *zap.Logger
}

// NewSeedService constructs the service.
func NewSeedService(
	settings repository.SettingsRepository,
	employees repository.EmployeeRepository,
	escalations repository.EscalationRepository,
	logger *zap.Logger,
) *SeedService {
	return &SeedService{
		settings:    settings,
		employees:   employees,
		escalations: escalations,
		logger:      logger,
	}
}

type seedEmployee struct {
	name       string
	email      string
	role       domain.EmployeeRole
	department string
}

var seedDirectory = []seedEmployee{
	{"Admin User", "admin@example.com", domain.RoleAdmin, "Management"},
	{"CRM User", "crm@example.com", domain.RoleCRM, "CRM"},
	{"Mr. Smith", "smith.tech@example.com", domain.RoleHOD, "Technical"},
	{"Ms. Jones", "jones.legal@example.com", domain.RoleHOD, "Legal"},
	{"Mr. Wilson", "wilson.finance@example.com", domain.RoleHOD, "Finance"},
	{"Mr. Brown", "brown.ops@example.com", domain.RoleHOD, "Operations"},
	{"Tech Team 1", "team.tech1@example.com", domain.RoleTeamMember, "Technical"},
	{"Legal Team 1", "team.legal1@example.com", domain.RoleTeamMember, "Legal"},
	{"Tech Team 2", "team.tech2@example.com", domain.RoleTeamMember, "Technical"},
	{"Docs Team 1", "team.docs1@example.com", domain.RoleTeamMember, "Documentation"},
	{"Finance Team 1", "team.finance1@example.com", domain.RoleTeamMember, "Finance"},
	{"Maintenance Team 1", "team.maint1@example.com", domain.RoleTeamMember, "Maintenance"},
	{"Legal Team 2", "team.legal2@example.com", domain.RoleTeamMember, "Legal"},
}

type seedEscalation struct {
	customerName       string
	customerEmail      string
	buildingName       string
	flatOrOfficeNumber string
	department         string
	description        string
	status             string
}

var seedEscalations = []seedEscalation{
	{
		customerName:       "Alice Johnson",
		customerEmail:      "alice@example.com",
		buildingName:       "A-Tower",
		flatOrOfficeNumber: "101",
		department:         "Technical",
		description:        "The main water pipe in the apartment is leaking and has caused flooding in the kitchen area. Immediate assistance is required.",
		status:             "New",
	},
	{
		customerName:       "Bob Williams",
		customerEmail:      "bob@example.com",
		buildingName:       "B-Tower",
		flatOrOfficeNumber: "202",
		department:         "Documentation",
		description:        "I have not received the sale deed for my office space despite multiple follow-ups with the sales team.",
		status:             "In Progress",
	},
	{
		customerName:       "Charlie Brown",
		customerEmail:      "charlie@example.com",
		buildingName:       "C-Tower",
		flatOrOfficeNumber: "303",
		department:         "Finance",
		description:        "The final invoice has an incorrect amount. I was overcharged for the parking space. Requesting a refund for the difference.",
		status:             "Resolved",
	},
}

// Run seeds the database. defaultPassword is the initial credential for
// every seeded employee.
func (s *SeedService) Run(ctx context.Context, defaultPassword string) error {
	existing, err := s.employees.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect directory: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("directory already populated; skipping seed", zap.Int("employees", len(existing)))
		return nil
	}

	if err := s.seedSettings(ctx); err != nil {
		return err
	}
	if err := s.seedEmployees(ctx, defaultPassword); err != nil {
		return err
	}
	if err := s.seedEscalationRecords(ctx); err != nil {
		return err
	}
	s.logger.Info("database seeded",
		zap.Int("employees", len(seedDirectory)),
		zap.Int("escalations", len(seedEscalations)))
	return nil
}

func (s *SeedService) seedSettings(ctx context.Context) error {
	if _, err := s.settings.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if err := s.settings.Save(ctx, domain.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

func (s *SeedService) seedEmployees(ctx context.Context, defaultPassword string) error {
	hash, err := auth.HashPassword(defaultPassword, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	for _, e := range seedDirectory {
		emp := &domain.Employee{
			ID:           uuid.NewString(),
			Name:         e.name,
			Email:        e.email,
			Role:         e.role,
			Department:   e.department,
			Active:       true,
			PasswordHash: hash,
		}
		if err := s.employees.Create(ctx, emp); err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", e.email, err)
		}
	}
	return nil
}

func (s *SeedService) seedEscalationRecords(ctx context.Context) error {
	creator := seedDirectory[0].email
	for i, e := range seedEscalations {
		hod, err := s.employees.FindHOD(ctx, e.department)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("skipping sample escalation without HOD", zap.String("department", e.department))
				continue
			}
			return fmt.Errorf("failed to resolve HOD for %s: %w", e.department, err)
		}

		started := time.Now().Add(-time.Duration(i+1) * 24 * time.Hour)
		esc := &domain.Escalation{
			ID:                 uuid.NewString(),
			CustomerName:       e.customerName,
			CustomerEmail:      e.customerEmail,
			BuildingName:       e.buildingName,
			FlatOrOfficeNumber: e.flatOrOfficeNumber,
			Department:         e.department,
			Description:        e.description,
			Status:             e.status,
			StartDate:          started,
			AssignedTo:         fmt.Sprintf("%s (HOD)", hod.Name),
			HODEmail:           hod.Email,
			History:            []domain.Comment{},
			InvolvedUsers:      dedupe([]string{creator, hod.Email}),
			CreatedBy:          creator,
		}
		if err := s.escalations.Create(ctx, esc, nil); err != nil {
			return fmt.Errorf("failed to seed escalation for %s: %w", e.customerName, err)
		}
	}
	return nil
}
