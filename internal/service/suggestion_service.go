package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/config"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/pkg/util"
)

// SuggestionService asks an external classifier to suggest a department for
// an escalation description. The collaborator is optional: when it is not
// configured, suggestions come back empty and callers fall through to manual
// selection.
type SuggestionService struct {
	cfg      config.SuggestConfig
	settings *SettingsService
	client   *http.Client
	logger   *zap.Logger
}

type suggestRequest struct {
	Description string `json:"description"`
}

type suggestResponse struct {
	Department string `json:"department"`
}

// NewSuggestionService creates the service.
func NewSuggestionService(cfg config.SuggestConfig, settings *SettingsService, logger *zap.Logger) *SuggestionService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SuggestionService{
		cfg:      cfg,
		settings: settings,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// SuggestDepartment returns a department from the current vocabulary, or ""
// when the collaborator is absent, fails, or answers with an unknown value.
// Collaborator unavailability is not an error for the caller.
func (s *SuggestionService) SuggestDepartment(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", util.NewValidationError("description is required", nil)
	}
	if s.cfg.URL == "" {
		return "", nil
	}

	payload, err := json.Marshal(suggestRequest{Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to encode suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggestion collaborator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion collaborator returned status %d", resp.StatusCode)
	}

	var decoded suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode suggestion response: %w", err)
	}

	suggested := strings.TrimSpace(decoded.Department)
	if suggested == "" {
		return "", nil
	}

	settings := s.settings.Get(ctx)
	if !settings.Contains(domain.VocabularyDepartments, suggested) {
		// Never surface a value outside the configured vocabulary.
		s.logger.Warn("discarding out-of-vocabulary suggestion", zap.String("department", suggested))
		return "", nil
	}
	return suggested, nil
}
