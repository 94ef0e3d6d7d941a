package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"labstock-backend/config"
	"labstock-backend/lib/rbac"
	authutils "labstock-backend/lib/utils/auth-utils"
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 60
	config.Conf = conf
	rbac.NewHandler()

	app := fiber.New()
	app.Use(WithBodyLimit(16))
	app.Post("/api/v1/auth/login", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	})
	app.Use(AuthorizationRequired(), RbacMiddleware())
	app.Post("/api/v1/users/list", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(GetSession(ctx)))
	})
	return app
}

func token(t *testing.T, role models.UserRole) string {
	tok, err := authutils.GetToken(models.Session{UserID: "u-1", Name: "Ann", Role: role, LabID: "lab-1"})
	require.NoError(t, err)
	return tok
}

func doRequest(t *testing.T, app *fiber.App, path, tok, body string) (int, apimodels.Response) {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out apimodels.Response
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestPublicRouteWithoutToken(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, "/api/v1/auth/login", "", "{}")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", resp.Status)
}

func TestMissingTokenFriendlyMessage(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, "/api/v1/users/list", "", "{}")
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Equal(t, "fail", resp.Status)
	require.Equal(t, "sign in to continue", resp.Message)
}

func TestRoleRules(t *testing.T) {
	app := newTestApp(t)

	status, resp := doRequest(t, app, "/api/v1/users/list", token(t, models.LabUserRole), "{}")
	require.Equal(t, fiber.StatusForbidden, status)
	require.Equal(t, "operation is not allowed", resp.Message)

	status, resp = doRequest(t, app, "/api/v1/users/list", token(t, models.AdminRole), "{}")
	require.Equal(t, fiber.StatusOK, status)
	session, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "u-1", session["UserID"])
	require.Equal(t, "lab-1", session["LabID"])
	require.Equal(t, "admin", session["Role"])
}

func TestBodyLimit(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, "/api/v1/auth/login", "", `{"email":"someone@example.com"}`)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	require.Contains(t, resp.Message, "request body too large")
}
