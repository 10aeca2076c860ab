package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func newTestAuthService() (AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewAuthService(repo, "test-secret", time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()

	user, token, err := svc.Register("Jane@Example.com", "supersecret", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "supersecret", user.PasswordHash)

	loggedIn, loginToken, err := svc.Login("jane@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Register("jane@example.com", "supersecret", "Jane")
	require.NoError(t, err)

	_, _, err = svc.Register("jane@example.com", "othersecret", "Other Jane")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Register("jane@example.com", "supersecret", "Jane")
	require.NoError(t, err)

	_, _, err = svc.Login("jane@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()

	user, token, err := svc.Register("jane@example.com", "supersecret", "Jane")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svcA, _ := newTestAuthService()
	repo := newStubUserRepo()
	svcB := NewAuthService(repo, "different-secret", time.Hour)

	_, token, err := svcA.Register("jane@example.com", "supersecret", "Jane")
	require.NoError(t, err)

	_, err = svcB.ValidateToken(token)
	assert.Error(t, err)
}
