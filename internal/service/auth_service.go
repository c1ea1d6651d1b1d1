package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/config"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

// AuthService signs employees in and handles the password reset flow.
type AuthService struct {
	employees  repository.EmployeeRepository
	resets     repository.PasswordResetRepository
	tokens     *auth.TokenManager
	notifier   *NotificationService
	resetTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UID       string
	Email     string
	Name      string
	Role      string
}

// NewAuthService constructs the service.
func NewAuthService(
	employees repository.EmployeeRepository,
	resets repository.PasswordResetRepository,
	tokens *auth.TokenManager,
	notifier *NotificationService,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	resetTTL := time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		employees:  employees,
		resets:     resets,
		tokens:     tokens,
		notifier:   notifier,
		resetTTL:   resetTTL,
		bcryptCost: cost,
		logger:     logger,
	}
}

// Login verifies credentials and issues a signed session token. Wrong email
// and wrong password produce the same error so the endpoint cannot be used
// to probe the directory.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	if !emp.Active {
		return nil, apperrors.NewForbidden("account is disabled")
	}
	if err := auth.ComparePassword(emp.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(emp.ID, emp.Email, string(emp.Role))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		UID:       emp.ID,
		Email:     emp.Email,
		Name:      emp.Name,
		Role:      string(emp.Role),
	}, nil
}

// RequestPasswordReset creates a one-time reset token and mails it to the
// employee. Unknown addresses succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return apperrors.NewPersistenceError(err)
	}

	raw, err := generateResetToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	token := &repository.PasswordResetToken{
		EmployeeID: emp.ID,
		TokenHash:  hashResetToken(raw),
		ExpiresAt:  time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.NewPersistenceError(err)
	}

	// Delivery is best-effort; the token row exists either way.
	if s.notifier != nil {
		body := "A password reset was requested for your account. Reset code: " + raw
		if _, err := s.notifier.Send(ctx, emp.Email, "Password Reset Request", body); err != nil {
			s.logger.Error("failed to send password reset email", zap.String("email", emp.Email), zap.Error(err))
		}
	}
	return nil
}

// ConfirmPasswordReset exchanges a valid reset token for a new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return apperrors.NewValidationError("token and new password are required", nil)
	}
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	token, err := s.resets.GetByHash(ctx, hashResetToken(rawToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid or expired reset token")
		}
		return apperrors.NewPersistenceError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.employees.UpdatePasswordHash(ctx, token.EmployeeID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", nil)
		}
		return apperrors.NewPersistenceError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		s.logger.Error("failed to mark reset token used", zap.String("token_id", token.ID), zap.Error(err))
	}
	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Only the SHA-256 of a token is persisted.
func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
