package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/nexus-bills/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/nexus-bills/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

func buildMiddlewareApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "username": apphttp.GetUsername(c)})
	})
	return app
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "ravi", "test", 60)
	require.NoError(t, err)

	resp, body := doProtected(t, buildMiddlewareApp(), "Bearer "+tok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "ravi", body["username"])
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("another-secret", testUserID, "ravi", "test", 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "ravi", "test", -5)
	require.NoError(t, err)

	cases := []struct {
		name, header, code string
	}{
		{"missing header", "", "MISSING_TOKEN"},
		{"wrong scheme", "Basic abc", "INVALID_TOKEN"},
		{"garbage", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"other secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, "INVALID_TOKEN"},
	}
	app := buildMiddlewareApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doProtected(t, app, tc.header)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.code, body["code"])
		})
	}
}
