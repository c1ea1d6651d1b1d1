package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/observability"
	apperrors "github.com/Shukladev7/escalation-tracker/pkg/util"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	return app
}

func decodeErrorEnvelope(t *testing.T, resp *http.Response) errorEnvelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestErrorMiddlewareServesDomainErrorEnvelope(t *testing.T) {
	app := newTestApp(t)
	app.Post("/escalations", func(c *fiber.Ctx) error {
		return apperrors.NewRoutingError("Legal")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/escalations", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	envelope := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "ROUTING_FAILED", envelope.Error.Code)
	assert.Equal(t, "Legal", envelope.Error.Details["department"])
}

func TestErrorMiddlewareMapsFiberErrors(t *testing.T) {
	app := newTestApp(t)
	app.Post("/things", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/things", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	envelope := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	assert.Equal(t, "invalid payload", envelope.Error.Message)
}

func TestErrorMiddlewareRecoversFromPanic(t *testing.T) {
	app := newTestApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected state")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	envelope := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	app := newTestApp(t)
	tokens := auth.NewTokenManager("test-secret", 30)
	app.Get("/protected", auth.NewAuthMiddleware(tokens).Handle, auth.RequireSignedIn(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	envelope := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	app := newTestApp(t)
	tokens := auth.NewTokenManager("test-secret", 30)
	app.Get("/protected", auth.NewAuthMiddleware(tokens).Handle, auth.RequireSignedIn(), func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"email": principal.Email})
	})

	token, _, err := tokens.GenerateToken("uid-1", "hod@example.com", "HOD")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "hod@example.com")
}

func TestRoleMiddlewareForbidsWrongRole(t *testing.T) {
	app := newTestApp(t)
	tokens := auth.NewTokenManager("test-secret", 30)
	app.Post("/admin-only",
		auth.NewAuthMiddleware(tokens).Handle,
		auth.RequireSignedIn(),
		auth.RequireRole("Admin"),
		func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusNoContent)
		})

	token, _, err := tokens.GenerateToken("uid-2", "member@example.com", "Team Member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	envelope := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}
