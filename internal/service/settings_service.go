package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/events"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

// SettingsService owns the three configurable vocabularies. All mutations are
// read-modify-write against the full list; a fetch failure falls back to the
// hardcoded defaults instead of failing the caller.
type SettingsService struct {
	repo       repository.SettingsRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu     sync.RWMutex
	cached domain.Settings
}

// NewSettingsService constructs the service.
func NewSettingsService(repo repository.SettingsRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
		cached:     domain.DefaultSettings(),
	}
}

// Get returns the current vocabularies. Storage failure is downgraded to the
// last known (or default) snapshot.
func (s *SettingsService) Get(ctx context.Context) domain.Settings {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		s.mu.RLock()
		fallback := s.cached.Clone()
		s.mu.RUnlock()
		s.logger.Warn("settings fetch failed; serving fallback vocabulary", zap.Error(err))
		return fallback
	}
	s.mu.Lock()
	s.cached = settings.Clone()
	s.mu.Unlock()
	return settings
}

// AddValue appends a new vocabulary entry. Duplicates are rejected.
func (s *SettingsService) AddValue(ctx context.Context, t domain.VocabularyType, value string) error {
	if err := validateVocabulary(t, value); err != nil {
		return err
	}
	settings := s.Get(ctx).Clone()
	if settings.Contains(t, value) {
		return apperrors.NewConflict("value already exists", map[string]any{"vocabulary": string(t), "value": value})
	}

	switch t {
	case domain.VocabularyDepartments:
		settings.Departments = append(settings.Departments, value)
	case domain.VocabularyStatuses:
		settings.Statuses = append(settings.Statuses, value)
	case domain.VocabularyRoles:
		settings.Roles = append(settings.Roles, value)
	}
	return s.save(ctx, settings, t, "added")
}

// UpdateValue renames an entry in place, preserving list order.
func (s *SettingsService) UpdateValue(ctx context.Context, t domain.VocabularyType, oldValue, newValue string) error {
	if err := validateVocabulary(t, newValue); err != nil {
		return err
	}
	settings := s.Get(ctx).Clone()
	if !settings.Contains(t, oldValue) {
		return apperrors.NewNotFound("vocabulary value", map[string]any{"vocabulary": string(t), "value": oldValue})
	}
	if oldValue == newValue {
		return nil
	}
	if settings.Contains(t, newValue) {
		return apperrors.NewConflict("value already exists", map[string]any{"vocabulary": string(t), "value": newValue})
	}

	list := settings.List(t)
	for i, v := range list {
		if v == oldValue {
			list[i] = newValue
		}
	}
	return s.save(ctx, settings, t, "updated")
}

// DeleteValue removes an entry from the list.
func (s *SettingsService) DeleteValue(ctx context.Context, t domain.VocabularyType, value string) error {
	if err := validateVocabulary(t, value); err != nil {
		return err
	}
	settings := s.Get(ctx).Clone()
	if !settings.Contains(t, value) {
		return apperrors.NewNotFound("vocabulary value", map[string]any{"vocabulary": string(t), "value": value})
	}

	filtered := make([]string, 0, len(settings.List(t)))
	for _, v := range settings.List(t) {
		if v != value {
			filtered = append(filtered, v)
		}
	}
	switch t {
	case domain.VocabularyDepartments:
		settings.Departments = filtered
	case domain.VocabularyStatuses:
		settings.Statuses = filtered
	case domain.VocabularyRoles:
		settings.Roles = filtered
	}
	return s.save(ctx, settings, t, "deleted")
}

func (s *SettingsService) save(ctx context.Context, settings domain.Settings, t domain.VocabularyType, action string) error {
	if err := s.repo.Save(ctx, settings); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	s.mu.Lock()
	s.cached = settings.Clone()
	s.mu.Unlock()

	s.publish(ctx, t, action)
	return nil
}

func (s *SettingsService) publish(ctx context.Context, t domain.VocabularyType, action string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSettingsChanged,
		Timestamp: time.Now(),
		Payload: events.SettingsChangedPayload{
			Vocabulary: string(t),
			Action:     action,
		},
	})
}

func validateVocabulary(t domain.VocabularyType, value string) error {
	switch t {
	case domain.VocabularyDepartments, domain.VocabularyStatuses, domain.VocabularyRoles:
	default:
		return apperrors.NewValidationError("unknown vocabulary type", map[string]any{"vocabulary": string(t)})
	}
	if value == "" {
		return apperrors.NewValidationError("value required", nil)
	}
	return nil
}
