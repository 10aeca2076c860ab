package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

type memUserRepo struct {
	users map[string]*models.User
}

func (r *memUserRepo) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Email] = user
	return nil
}

func (r *memUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*models.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func newAuthApp() *fiber.App {
	userRepo := &memUserRepo{users: make(map[string]*models.User)}
	authService := services.NewAuthService(userRepo, "test-secret", time.Hour)
	handler := NewAuthHandler(authService, userRepo)

	app := fiber.New()
	app.Post("/auth/register", handler.HandleRegister)
	app.Post("/auth/login", handler.HandleLogin)
	app.Get("/auth/me", handler.RequireAuth, handler.HandleMe)
	app.Get("/protected", handler.RequireAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginAndProtectedRoute(t *testing.T) {
	app := newAuthApp()

	resp := postJSON(t, app, "/auth/register", models.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var auth models.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	require.NotEmpty(t, auth.Token)

	// Token grants access
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+auth.Token)
	protected, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, protected.StatusCode)

	// Profile endpoint returns the registered user
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+auth.Token)
	me, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, me.StatusCode)

	var profile models.User
	require.NoError(t, json.NewDecoder(me.Body).Decode(&profile))
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Jane Doe", profile.FullName)

	// Login with the same credentials
	resp = postJSON(t, app, "/auth/login", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := newAuthApp()

	resp := postJSON(t, app, "/auth/register", models.RegisterRequest{
		Email:    "not-an-email",
		Password: "supersecret",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/auth/register", models.RegisterRequest{
		Email:    "jane@example.com",
		Password: "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	app := newAuthApp()

	resp := postJSON(t, app, "/auth/register", models.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/register", models.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	app := newAuthApp()

	resp := postJSON(t, app, "/auth/login", models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestValidationMessages(t *testing.T) {
	err := validate.Struct(models.RegisterRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	msg := validationMessage(err)
	assert.Contains(t, msg, "a valid email is required")
	assert.Contains(t, msg, "password must be at least 8 characters")
}
