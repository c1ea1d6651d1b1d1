package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/dto"
	"github.com/Shukladev7/escalation-tracker/internal/projection"
	"github.com/Shukladev7/escalation-tracker/internal/service"
)

// AuthHandler exposes login and password reset endpoints. A successful login
// also starts the projection manager, mirroring the subscribe-on-sign-in
// behavior of the client this service replaced.
type AuthHandler struct {
	auth       *service.AuthService
	projection *projection.Manager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, projectionManager *projection.Manager) *AuthHandler {
	return &AuthHandler{auth: authService, projection: projectionManager}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if h.projection != nil {
		// Start is a no-op when already running.
		if err := h.projection.Start(context.Background()); err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UID:       session.UID,
		Email:     session.Email,
		Name:      session.Name,
		Role:      session.Role,
	}})
}

// Logout handles POST /auth/logout. Stopping the projection manager mirrors
// the unsubscribe-on-sign-out behavior.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if h.projection != nil {
		h.projection.Stop()
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "signed_out"}})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "reset_requested"}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new password required")
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}
