package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/apperrors"
	"backoffice/internal/audit"
	"backoffice/internal/model"
)

type authFixture struct {
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	logs   *fakeActivityRepo
	svc    AuthService
}

var testSecret = []byte("test_secret")

func newAuthFixture(t *testing.T, status model.UserStatus) (*authFixture, *model.User) {
	t.Helper()
	roles := newFakeRoleRepo()
	users := newFakeUserRepo(roles)
	tokens := newFakeTokenRepo()
	logs := &fakeActivityRepo{}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1234"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: string(hashed), Status: status}
	require.NoError(t, users.Create(context.Background(), user))

	return &authFixture{
		users:  users,
		tokens: tokens,
		logs:   logs,
		svc:    NewAuthService(users, tokens, audit.NewRecorder(logs, nil), testSecret),
	}, user
}

func TestLoginIssuesTokensAndLogsEvent(t *testing.T) {
	f, user := newAuthFixture(t, model.StatusActive)

	res, err := f.svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret1234"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, user.ID.String(), res.User.ID)

	// The access token carries the user id as subject.
	parsed, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), sub)

	logins := f.logs.byEvent(model.EventLogin)
	require.Len(t, logins, 1)
	assert.Equal(t, "User logged in", logins[0].Description)
	require.NotNil(t, logins[0].UserID)
	assert.Equal(t, user.ID, *logins[0].UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f, _ := newAuthFixture(t, model.StatusActive)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	assert.Empty(t, f.logs.byEvent(model.EventLogin))
}

func TestLoginBlocksInactiveAccounts(t *testing.T) {
	for _, status := range []model.UserStatus{model.StatusInactive, model.StatusSuspended} {
		f, _ := newAuthFixture(t, status)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret1234"})
		require.Error(t, err, "status %q", status)
		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, f.logs.byEvent(model.EventLogin))
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f, _ := newAuthFixture(t, model.StatusActive)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "secret1234"})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The presented token is single-use.
	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f, user := newAuthFixture(t, model.StatusActive)
	ctx := context.Background()

	require.NoError(t, f.tokens.Create(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := f.svc.Refresh(ctx, "stale")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutRevokesTokenAndLogsEvent(t *testing.T) {
	f, user := newAuthFixture(t, model.StatusActive)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "secret1234"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))

	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	logouts := f.logs.byEvent(model.EventLogout)
	require.Len(t, logouts, 1)
	assert.Equal(t, "User logged out", logouts[0].Description)
	require.NotNil(t, logouts[0].UserID)
	assert.Equal(t, user.ID, *logouts[0].UserID)
}
