package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swapshelf/bookswap/db"
	apiError "github.com/swapshelf/bookswap/errors"
	"github.com/swapshelf/bookswap/models"
)

func newAuthFixture(t *testing.T) (AuthService, db.AuthRepository) {
	t.Helper()
	gormDB := newTestDB(t)
	repo := db.NewAuthRepo(gormDB)
	return NewAuthService(repo, newTestConfig()), repo
}

func TestSignupUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.SignupUser(&models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "reading1",
		Confirm:  "reading1",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "reading1", user.HashedPassword)
}

func TestSignupUserValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	tests := []struct {
		name    string
		request models.RegisterRequest
		message string
	}{
		{
			name:    "missing fields",
			request: models.RegisterRequest{Username: "bob"},
			message: "all fields are required",
		},
		{
			name: "password mismatch",
			request: models.RegisterRequest{
				Username: "bob", Email: "bob@example.com",
				Password: "reading1", Confirm: "reading2",
			},
			message: "passwords do not match",
		},
		{
			name: "password too short",
			request: models.RegisterRequest{
				Username: "bob", Email: "bob@example.com",
				Password: "abc", Confirm: "abc",
			},
			message: "password cant be less than 6 characters",
		},
		{
			name: "duplicate username",
			request: models.RegisterRequest{
				Username: "alice", Email: "other@example.com",
				Password: "reading1", Confirm: "reading1",
			},
			message: "username already taken",
		},
		{
			name: "duplicate email",
			request: models.RegisterRequest{
				Username: "alice2", Email: "alice@example.com",
				Password: "reading1", Confirm: "reading1",
			},
			message: "email already registered",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignupUser(&tc.request)
			require.Error(t, err)

			var e *apiError.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusBadRequest, e.Status)
			assert.Equal(t, tc.message, e.Message)
		})
	}
}

func TestLoginUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	loginResponse, err := svc.LoginUser(&models.LoginRequest{Username: "alice", Password: "reading1"})
	require.Nil(t, err)
	assert.Equal(t, "alice", loginResponse.Username)
	assert.NotEmpty(t, loginResponse.AccessToken)
	assert.NotEmpty(t, loginResponse.SessionToken)
	assert.True(t, loginResponse.ExpiresAt.After(time.Now()))
}

func TestLoginUserBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	_, err := svc.LoginUser(&models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, apiError.ErrInvalidLogin, err)

	_, err = svc.LoginUser(&models.LoginRequest{Username: "nobody", Password: "reading1"})
	assert.Equal(t, apiError.ErrInvalidLogin, err)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	loginResponse, loginErr := svc.LoginUser(&models.LoginRequest{Username: "alice", Password: "reading1"})
	require.Nil(t, loginErr)

	user, err := svc.CurrentUser(loginResponse.SessionToken)
	require.Nil(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.CurrentUser("not-a-session")
	assert.Equal(t, apiError.ErrUnauthorized, err)

	_, err = svc.CurrentUser("")
	assert.Equal(t, apiError.ErrUnauthorized, err)
}

func TestCurrentUserExpiredSession(t *testing.T) {
	svc, repo := newAuthFixture(t)
	user := signupTestUser(t, svc, "alice")

	session := &models.Session{
		Token:     "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateSession(session))

	_, err := svc.CurrentUser(session.Token)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Status)

	// Expired sessions are removed when seen.
	_, findErr := repo.FindSession(session.Token)
	assert.Error(t, findErr)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	loginResponse, loginErr := svc.LoginUser(&models.LoginRequest{Username: "alice", Password: "reading1"})
	require.Nil(t, loginErr)

	require.NoError(t, svc.Logout(loginResponse.SessionToken))

	_, err := svc.CurrentUser(loginResponse.SessionToken)
	assert.Equal(t, apiError.ErrUnauthorized, err)

	require.NoError(t, svc.Logout(loginResponse.SessionToken))
	require.NoError(t, svc.Logout(""))
}

func TestRevokeAccessToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	signupTestUser(t, svc, "alice")

	loginResponse, loginErr := svc.LoginUser(&models.LoginRequest{Username: "alice", Password: "reading1"})
	require.Nil(t, loginErr)

	assert.False(t, repo.IsTokenInBlacklist(loginResponse.AccessToken))
	require.NoError(t, svc.RevokeAccessToken(loginResponse.AccessToken))
	assert.True(t, repo.IsTokenInBlacklist(loginResponse.AccessToken))
}
