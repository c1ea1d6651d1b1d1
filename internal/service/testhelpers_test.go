package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/events"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
)

// fakeEscalationRepo is an in-memory stand-in for the pgx-backed repository.
// It mirrors the SQL semantics the tests depend on: history appends, set-union
// involved_users, and not-found as pgx.ErrNoRows.
type fakeEscalationRepo struct {
	mu           sync.Mutex
	escalations  map[string]*domain.Escalation
	order        []string
	enqueued     []domain.PendingNotification
	failCreate   error
	failMutation error
}

func newFakeEscalationRepo() *fakeEscalationRepo {
	return &fakeEscalationRepo{escalations: make(map[string]*domain.Escalation)}
}

func (r *fakeEscalationRepo) Create(_ context.Context, esc *domain.Escalation, pending *domain.PendingNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	clone := *esc
	r.escalations[esc.ID] = &clone
	r.order = append(r.order, esc.ID)
	if pending != nil {
		r.enqueued = append(r.enqueued, *pending)
	}
	return nil
}

func (r *fakeEscalationRepo) GetByID(_ context.Context, id string) (*domain.Escalation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	esc, ok := r.escalations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *esc
	clone.History = append([]domain.Comment{}, esc.History...)
	clone.InvolvedUsers = append([]string{}, esc.InvolvedUsers...)
	return &clone, nil
}

func (r *fakeEscalationRepo) List(_ context.Context) ([]domain.Escalation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Escalation, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.escalations[r.order[i]])
	}
	return out, nil
}

func (r *fakeEscalationRepo) UpdateStatus(_ context.Context, id, status string, comment domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMutation != nil {
		return r.failMutation
	}
	esc, ok := r.escalations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	esc.Status = status
	esc.History = append(esc.History, comment)
	return nil
}

func (r *fakeEscalationRepo) AssignTeamMember(_ context.Context, id, email string, comment domain.Comment, pending *domain.PendingNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMutation != nil {
		return r.failMutation
	}
	esc, ok := r.escalations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	esc.AssignedTeamMemberEmail = &email
	esc.History = append(esc.History, comment)
	if !esc.Involves(email) {
		esc.InvolvedUsers = append(esc.InvolvedUsers, email)
	}
	if pending != nil {
		r.enqueued = append(r.enqueued, *pending)
	}
	return nil
}

func (r *fakeEscalationRepo) AppendComment(_ context.Context, id string, comment domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	esc, ok := r.escalations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	esc.History = append(esc.History, comment)
	return nil
}

func (r *fakeEscalationRepo) SetEndDate(_ context.Context, id string, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	esc, ok := r.escalations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	esc.EndDate = &endDate
	return nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees []*domain.Employee
}

func newFakeEmployeeRepo(seed ...domain.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{}
	for i := range seed {
		clone := seed[i]
		r.employees = append(r.employees, &clone)
	}
	return r
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *emp
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	r.employees = append(r.employees, &clone)
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.ID == id {
			clone := *emp
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if strings.EqualFold(emp.Email, email) {
			clone := *emp
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		out = append(out, *emp)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListByRole(_ context.Context, role string) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Employee
	for _, emp := range r.employees {
		if emp.Role == role {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) FindHOD(_ context.Context, department string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.Role == domain.RoleHOD && emp.Department == department && emp.Active {
			clone := *emp
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.ID == id {
			emp.PasswordHash = hash
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, emp := range r.employees {
		if emp.ID == id {
			emp.Active = active
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, emp := range r.employees {
		if emp.ID == id {
			r.employees = append(r.employees[:i], r.employees[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
	failGet  error
}

func newFakeSettingsRepo(settings domain.Settings) *fakeSettingsRepo {
	clone := settings.Clone()
	return &fakeSettingsRepo{settings: &clone}
}

func (r *fakeSettingsRepo) Get(_ context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return domain.Settings{}, r.failGet
	}
	if r.settings == nil {
		return domain.Settings{}, pgx.ErrNoRows
	}
	return r.settings.Clone(), nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := settings.Clone()
	r.settings = &clone
	return nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens []*repository.PasswordResetToken
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	if clone.ID == "" {
		clone.ID = "token-" + clone.TokenHash[:8]
	}
	clone.CreatedAt = time.Now()
	r.tokens = append(r.tokens, &clone)
	token.ID = clone.ID
	return nil
}

func (r *fakeResetRepo) GetByHash(_ context.Context, tokenHash string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			clone := *token
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == t {
			out = append(out, event)
		}
	}
	return out
}

func testActor(email, role string) auth.Actor {
	return auth.Actor{UID: "uid-" + email, Email: email, Role: role}
}

func newEngineForTest(escRepo *fakeEscalationRepo, empRepo *fakeEmployeeRepo, settingsRepo *fakeSettingsRepo, dispatcher events.Dispatcher) *EscalationService {
	logger := zap.NewNop()
	settings := NewSettingsService(settingsRepo, dispatcher, logger)
	directory := NewDirectoryService(DirectoryDependencies{
		EmployeeRepo: empRepo,
		Settings:     settings,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	return NewEscalationService(EscalationDependencies{
		EscalationRepo: escRepo,
		Directory:      directory,
		Settings:       settings,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
}
