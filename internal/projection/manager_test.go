package projection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

type fakeSources struct {
	mu          sync.Mutex
	escalations []domain.Escalation
	settings    domain.Settings
	settingsErr error
}

func (s *fakeSources) List(_ context.Context) ([]domain.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Escalation{}, s.escalations...), nil
}

func (s *fakeSources) Get(_ context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settingsErr != nil {
		return domain.Settings{}, s.settingsErr
	}
	return s.settings.Clone(), nil
}

func (s *fakeSources) set(escalations []domain.Escalation, settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.escalations = escalations
	s.settings = settings
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestManagerLoadsInitialSnapshots(t *testing.T) {
	sources := &fakeSources{
		escalations: []domain.Escalation{{ID: "esc-1", Status: "New"}},
		settings:    domain.DefaultSettings(),
	}
	mgr := newTestManager(t, sources)

	require.NoError(t, mgr.Start(context.Background()))
	defer mgr.Stop()

	escalations := mgr.Escalations()
	require.Len(t, escalations, 1)
	assert.Equal(t, "esc-1", escalations[0].ID)
	assert.Equal(t, domain.DefaultSettings().Departments, mgr.Settings().Departments)
}

func TestManagerRefreshesOnFeedSignal(t *testing.T) {
	sources := &fakeSources{settings: domain.DefaultSettings()}
	feed := NewMemoryFeed()
	mgr := NewManager(feed, Sources{
		Escalations: sources,
		Employees:   employeeListSource{},
		Settings:    sources,
	}, zap.NewNop())

	require.NoError(t, mgr.Start(context.Background()))
	defer mgr.Stop()

	assert.Empty(t, mgr.Escalations())

	sources.set([]domain.Escalation{{ID: "esc-2", Status: "New"}}, domain.DefaultSettings())
	require.NoError(t, feed.Publish(context.Background(), CollectionEscalations))

	waitFor(t, func() bool { return len(mgr.Escalations()) == 1 })
}

func TestManagerKeepsSettingsSnapshotOnRefreshFailure(t *testing.T) {
	sources := &fakeSources{settings: domain.Settings{
		Departments: []string{"Finance"},
		Statuses:    []string{"Open"},
		Roles:       []string{"HOD"},
	}}
	feed := NewMemoryFeed()
	mgr := NewManager(feed, Sources{
		Escalations: sources,
		Employees:   employeeListSource{},
		Settings:    sources,
	}, zap.NewNop())

	require.NoError(t, mgr.Start(context.Background()))
	defer mgr.Stop()

	require.Equal(t, []string{"Finance"}, mgr.Settings().Departments)

	sources.mu.Lock()
	sources.settingsErr = context.DeadlineExceeded
	sources.mu.Unlock()
	require.NoError(t, feed.Publish(context.Background(), CollectionSettings))

	// The previous snapshot keeps serving.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"Finance"}, mgr.Settings().Departments)
}

func TestManagerWatchDeliversChanges(t *testing.T) {
	sources := &fakeSources{settings: domain.DefaultSettings()}
	feed := NewMemoryFeed()
	mgr := NewManager(feed, Sources{
		Escalations: sources,
		Employees:   employeeListSource{},
		Settings:    sources,
	}, zap.NewNop())

	require.NoError(t, mgr.Start(context.Background()))

	watch := mgr.Watch()
	require.NoError(t, feed.Publish(context.Background(), CollectionEmployees))

	select {
	case change := <-watch:
		assert.Equal(t, CollectionEmployees, change.Collection)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	mgr.Stop()
	_, open := <-watch
	assert.False(t, open)
}

func TestManagerStopDuringDeliveryBurst(t *testing.T) {
	sources := &fakeSources{settings: domain.DefaultSettings()}
	feed := NewMemoryFeed()
	mgr := NewManager(feed, Sources{
		Escalations: sources,
		Employees:   employeeListSource{},
		Settings:    sources,
	}, zap.NewNop())

	require.NoError(t, mgr.Start(context.Background()))
	watch := mgr.Watch()

	// Keep changes in flight while the manager shuts down. A send racing the
	// watcher close would panic the feed consumer goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = feed.Publish(context.Background(), CollectionEscalations)
		}
	}()

	time.Sleep(5 * time.Millisecond)
	mgr.Stop()
	<-done

	waitFor(t, func() bool {
		select {
		case _, open := <-watch:
			return !open
		default:
			return false
		}
	})
}

func TestManagerStartTwiceIsNoOp(t *testing.T) {
	sources := &fakeSources{settings: domain.DefaultSettings()}
	mgr := newTestManager(t, sources)

	require.NoError(t, mgr.Start(context.Background()))
	require.NoError(t, mgr.Start(context.Background()))
	mgr.Stop()
}

type employeeListSource struct{}

func (employeeListSource) List(context.Context) ([]domain.Employee, error) {
	return nil, nil
}

func newTestManager(t *testing.T, sources *fakeSources) *Manager {
	t.Helper()
	return NewManager(NewMemoryFeed(), Sources{
		Escalations: sources,
		Employees:   employeeListSource{},
		Settings:    sources,
	}, zap.NewNop())
}
