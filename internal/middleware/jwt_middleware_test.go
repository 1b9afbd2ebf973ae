package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estoquehub/internal/middleware"
	"estoquehub/internal/models"
	"estoquehub/internal/repositories"
	"estoquehub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(authService *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		identity, ok := middleware.CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(identity)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAuthRequired(t *testing.T) {
	authService := services.NewAuthService(repositories.NewMockUserRepository(), "test_jwt_secret")
	app := newProtectedApp(authService)

	token, err := authService.GenerateToken(&models.User{ID: "user-123", Email: "ana@x.com"})
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "user-123", body["id"])
		assert.Equal(t, "ana@x.com", body["email"])
	})

	t.Run("MissingHeader", func(t *testing.T) {
		status, body := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "token not provided", body["message"])
	})

	t.Run("WrongScheme", func(t *testing.T) {
		status, body := doRequest(t, app, "Token "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "token not provided", body["message"])

		status, _ = doRequest(t, app, "bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("SchemeWithoutToken", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "token not provided", body["message"])
	})

	t.Run("InvalidToken", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer invalid.token.string")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "invalid or expired token", body["message"])
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expiring := services.NewAuthService(repositories.NewMockUserRepository(), "test_jwt_secret")
		expiring.SetClock(func() time.Time { return time.Now().Add(-9 * time.Hour) })
		old, err := expiring.GenerateToken(&models.User{ID: "user-123", Email: "ana@x.com"})
		require.NoError(t, err)

		status, body := doRequest(t, app, "Bearer "+old)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "invalid or expired token", body["message"])
	})
}
