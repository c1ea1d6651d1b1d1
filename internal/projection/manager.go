package projection

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

// EscalationSource supplies the escalation collection snapshot.
type EscalationSource interface {
	List(ctx context.Context) ([]domain.Escalation, error)
}

// EmployeeSource supplies the employee collection snapshot.
type EmployeeSource interface {
	List(ctx context.Context) ([]domain.Employee, error)
}

// SettingsSource supplies the settings snapshot.
type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// Sources bundles the collection readers backing the projection.
type Sources struct {
	Escalations EscalationSource
	Employees   EmployeeSource
	Settings    SettingsSource
}

// Manager is the process-scoped subscription manager. It is started on
// sign-in and stopped on sign-out, holds pull-based snapshots of the three
// collections, and fans change signals out to watchers. Snapshots are
// eventually consistent: writers never wait for their own change to round-trip
// through the feed.
type Manager struct {
	feed    ChangeFeed
	sources Sources
	logger  *zap.Logger

	mu          sync.RWMutex
	escalations []domain.Escalation
	employees   []domain.Employee
	settings    domain.Settings
	watchers    []chan Change
	cancel      context.CancelFunc
	running     bool
}

// NewManager constructs the projection manager.
func NewManager(feed ChangeFeed, sources Sources, logger *zap.Logger) *Manager {
	return &Manager{
		feed:     feed,
		sources:  sources,
		logger:   logger,
		settings: domain.DefaultSettings(),
	}
}

// Start loads initial snapshots and begins consuming the change feed.
// Calling Start on a running manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	m.refresh(runCtx, CollectionEscalations)
	m.refresh(runCtx, CollectionEmployees)
	m.refresh(runCtx, CollectionSettings)

	changes, err := m.feed.Subscribe(runCtx)
	if err != nil {
		m.Stop()
		return err
	}

	go func() {
		for change := range changes {
			m.refresh(runCtx, change.Collection)
			m.notify(change)
		}
	}()
	return nil
}

// Stop ends feed consumption and closes watcher channels.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}
	for _, w := range m.watchers {
		close(w)
	}
	m.watchers = nil
}

// Escalations returns the current escalation snapshot, newest first.
func (m *Manager) Escalations() []domain.Escalation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Escalation, len(m.escalations))
	copy(out, m.escalations)
	return out
}

// Employees returns the current employee snapshot, ordered by name.
func (m *Manager) Employees() []domain.Employee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Employee, len(m.employees))
	copy(out, m.employees)
	return out
}

// Settings returns the current vocabulary snapshot.
func (m *Manager) Settings() domain.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone()
}

// Watch returns a push-based stream of observed changes. The channel is
// closed when the manager stops. Slow consumers drop signals rather than
// block the manager.
func (m *Manager) Watch() <-chan Change {
	ch := make(chan Change, 16)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) refresh(ctx context.Context, collection string) {
	switch collection {
	case CollectionEscalations:
		list, err := m.sources.Escalations.List(ctx)
		if err != nil {
			m.logger.Error("projection refresh failed", zap.String("collection", collection), zap.Error(err))
			return
		}
		m.mu.Lock()
		m.escalations = list
		m.mu.Unlock()
	case CollectionEmployees:
		list, err := m.sources.Employees.List(ctx)
		if err != nil {
			m.logger.Error("projection refresh failed", zap.String("collection", collection), zap.Error(err))
			return
		}
		m.mu.Lock()
		m.employees = list
		m.mu.Unlock()
	case CollectionSettings:
		settings, err := m.sources.Settings.Get(ctx)
		if err != nil {
			// keep serving the previous snapshot; defaults apply before first load
			m.logger.Warn("settings refresh failed; keeping current snapshot", zap.Error(err))
			return
		}
		m.mu.Lock()
		m.settings = settings
		m.mu.Unlock()
	}
}

// notify holds the lock across the sends so Stop cannot close a watcher
// channel mid-delivery. Sends never block, so the hold is short.
func (m *Manager) notify(change Change) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.watchers {
		select {
		case w <- change:
		default:
		}
	}
}
