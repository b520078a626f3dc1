package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TavolaHQ/tavola_api/internal/config"
	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/totp"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

const (
	testSalt     = "unit-test-salt"
	testPassword = "correct horse battery staple"
)

type fakeUserStore struct {
	users  map[int]*models.AdminUser
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int]*models.AdminUser), nextID: 1}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*models.AdminUser, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.AdminUser) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	f.users[id].LastLoginAt = sql.NullTime{Time: at, Valid: true}
	return nil
}

func (f *fakeUserStore) SetTOTPSecret(_ context.Context, id int, secret string) error {
	u := f.users[id]
	u.TOTPSecret = sql.NullString{String: secret, Valid: true}
	u.TOTPEnabled = false
	return nil
}

func (f *fakeUserStore) EnableTOTP(_ context.Context, id int) error {
	f.users[id].TOTPEnabled = true
	return nil
}

func (f *fakeUserStore) ClearTOTP(_ context.Context, id int) error {
	u := f.users[id]
	u.TOTPSecret = sql.NullString{}
	u.TOTPEnabled = false
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session), nextID: 1}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.Session) error {
	s.ID = f.nextID
	f.nextID++
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeSessionStore) GetActive(_ context.Context, token string, now time.Time) (*models.Session, error) {
	s, ok := f.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := NewAuthService(users, sessions, &config.AuthConfig{
		PasswordSalt: testSalt,
		TOTPIssuer:   "Tavola",
		SessionTTL:   168 * time.Hour,
		PendingTTL:   5 * time.Minute,
	})
	svc.NowFunc = func() time.Time { return time.Unix(1756700000, 0).UTC() }
	return svc, users, sessions
}

func seedAdmin(t *testing.T, svc *AuthService) *models.AdminUser {
	t.Helper()
	user, err := svc.CreateAdmin(context.Background(), "admin@example.com", testPassword, "Admin")
	require.NoError(t, err)
	return user
}

// seedAdminWithTOTP provisions an admin that has completed two-factor
// enrollment, returning the user and the shared secret.
func seedAdminWithTOTP(t *testing.T, svc *AuthService, users *fakeUserStore) (*models.AdminUser, string) {
	t.Helper()
	user := seedAdmin(t, svc)
	secret, _, err := svc.SetupTwoFactor(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, users.EnableTOTP(context.Background(), user.ID))
	return user, secret
}

func TestLoginWithoutTwoFactor(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	seedAdmin(t, svc)
	ctx := context.Background()

	result, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	assert.False(t, result.RequiresTwoFactor)
	assert.Empty(t, result.PendingToken)
	assert.True(t, strings.HasPrefix(result.Token, "sess_"))
	require.NotNil(t, result.User)
	assert.True(t, result.User.LastLoginAt.Valid)

	stored := sessions.sessions[result.Token]
	require.NotNil(t, stored)
	assert.Equal(t, result.User.ID, stored.UserID)
	assert.Equal(t, svc.NowFunc().Add(168*time.Hour), stored.ExpiresAt)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	seedAdmin(t, svc)
	ctx := context.Background()

	_, err := svc.Login(ctx, "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "admin@example.com", "wrong password")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	assert.Empty(t, sessions.sessions, "failed logins must not create sessions")
}

func TestLoginWithTwoFactorReturnsPendingToken(t *testing.T) {
	svc, users, sessions := newTestAuthService()
	seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	result, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	assert.True(t, result.RequiresTwoFactor)
	assert.Empty(t, result.Token)
	assert.Nil(t, result.User)
	assert.True(t, strings.HasPrefix(result.PendingToken, "pending-2fa_"))

	stored := sessions.sessions[result.PendingToken]
	require.NotNil(t, stored)
	assert.Equal(t, svc.NowFunc().Add(5*time.Minute), stored.ExpiresAt)
}

func TestVerifyTwoFactorFlow(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user, secret := seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	code := totp.ComputeCode(secret, svc.NowFunc())
	result, err := svc.VerifyTwoFactor(ctx, login.PendingToken, code)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Token, "sess_"))
	require.NotNil(t, result.User)
	assert.Equal(t, user.ID, result.User.ID)

	// The pending token is consumed on success.
	_, err = svc.VerifyTwoFactor(ctx, login.PendingToken, code)
	assert.ErrorIs(t, err, utils.ErrSessionExpired)
}

func TestVerifyTwoFactorAcceptsAdjacentStep(t *testing.T) {
	svc, users, _ := newTestAuthService()
	_, secret := seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	// Authenticator clock one step behind the server.
	code := totp.ComputeCodeAt(secret, svc.NowFunc(), -1)
	_, err = svc.VerifyTwoFactor(ctx, login.PendingToken, code)
	assert.NoError(t, err)
}

func TestVerifyTwoFactorWrongCode(t *testing.T) {
	svc, users, _ := newTestAuthService()
	_, secret := seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	_, err = svc.VerifyTwoFactor(ctx, login.PendingToken, "000000")
	assert.ErrorIs(t, err, utils.ErrInvalidCode)

	// A wrong code does not burn the pending token.
	code := totp.ComputeCode(secret, svc.NowFunc())
	_, err = svc.VerifyTwoFactor(ctx, login.PendingToken, code)
	assert.NoError(t, err)
}

func TestVerifyTwoFactorRejectsNonPendingToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	seedAdmin(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	_, err = svc.VerifyTwoFactor(ctx, login.Token, "123456")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestVerifyTwoFactorExpiredPendingToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	_, secret := seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	issued := svc.NowFunc()
	svc.NowFunc = func() time.Time { return issued.Add(5 * time.Minute) }

	_, err = svc.VerifyTwoFactor(ctx, login.PendingToken, totp.ComputeCode(secret, svc.NowFunc()))
	assert.ErrorIs(t, err, utils.ErrSessionExpired)
}

func TestVerifySession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	seeded := seedAdmin(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	user, err := svc.VerifySession(ctx, login.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, seeded.ID, user.ID)

	user, err = svc.VerifySession(ctx, "sess_"+strings.Repeat("0", 64))
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestVerifySessionExpiryBoundary(t *testing.T) {
	svc, _, _ := newTestAuthService()
	seedAdmin(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	issued := svc.NowFunc()

	svc.NowFunc = func() time.Time { return issued.Add(168*time.Hour - time.Second) }
	user, err := svc.VerifySession(ctx, login.Token)
	require.NoError(t, err)
	assert.NotNil(t, user, "one second before expiry is still valid")

	// Exactly at the expiry instant the session is already expired.
	svc.NowFunc = func() time.Time { return issued.Add(168 * time.Hour) }
	user, err = svc.VerifySession(ctx, login.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestVerifySessionRejectsPendingToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	user, err := svc.VerifySession(ctx, login.PendingToken)
	require.NoError(t, err)
	assert.Nil(t, user, "a pending token never authenticates requests")
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	seedAdmin(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Token))
	assert.Empty(t, sessions.sessions)

	// Logging out an unknown token is a no-op.
	assert.NoError(t, svc.Logout(ctx, login.Token))
}

func TestSetupAndConfirmTwoFactor(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user := seedAdmin(t, svc)
	ctx := context.Background()

	secret, uri, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, uri, "otpauth://totp/")
	assert.Contains(t, uri, secret)

	// Setup alone does not enforce two-factor on login.
	login, err := svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)
	assert.False(t, login.RequiresTwoFactor)

	err = svc.ConfirmTwoFactorSetup(ctx, user.ID, totp.ComputeCode(secret, svc.NowFunc()))
	require.NoError(t, err)
	assert.True(t, users.users[user.ID].TOTPEnabled)

	login, err = svc.Login(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)
	assert.True(t, login.RequiresTwoFactor)
}

func TestConfirmTwoFactorWrongCode(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user := seedAdmin(t, svc)
	ctx := context.Background()

	_, _, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)

	err = svc.ConfirmTwoFactorSetup(ctx, user.ID, "000000")
	assert.ErrorIs(t, err, utils.ErrInvalidCode)
	assert.False(t, users.users[user.ID].TOTPEnabled)
}

func TestConfirmTwoFactorWithoutSetup(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := seedAdmin(t, svc)

	err := svc.ConfirmTwoFactorSetup(context.Background(), user.ID, "123456")
	assert.ErrorIs(t, err, utils.ErrSetupNotStarted)
}

func TestSetupOverwritesPendingSecret(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user := seedAdmin(t, svc)
	ctx := context.Background()

	first, _, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)
	second, _, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Only the latest secret confirms.
	err = svc.ConfirmTwoFactorSetup(ctx, user.ID, totp.ComputeCode(first, svc.NowFunc()))
	assert.ErrorIs(t, err, utils.ErrInvalidCode)
	err = svc.ConfirmTwoFactorSetup(ctx, user.ID, totp.ComputeCode(second, svc.NowFunc()))
	assert.NoError(t, err)
	assert.True(t, users.users[user.ID].TOTPEnabled)
}

func TestDisableTwoFactor(t *testing.T) {
	svc, users, _ := newTestAuthService()
	user, secret := seedAdminWithTOTP(t, svc, users)
	ctx := context.Background()

	err := svc.DisableTwoFactor(ctx, user.ID, "wrong password", "")
	assert.ErrorIs(t, err, utils.ErrInvalidPassword)
	assert.True(t, users.users[user.ID].TOTPEnabled, "failed disable must not change state")

	err = svc.DisableTwoFactor(ctx, user.ID, testPassword, "")
	assert.ErrorIs(t, err, utils.ErrTwoFactorCodeRequired)

	err = svc.DisableTwoFactor(ctx, user.ID, testPassword, "000000")
	assert.ErrorIs(t, err, utils.ErrInvalidCode)

	err = svc.DisableTwoFactor(ctx, user.ID, testPassword, totp.ComputeCode(secret, svc.NowFunc()))
	require.NoError(t, err)
	assert.False(t, users.users[user.ID].TOTPEnabled)
	assert.False(t, users.users[user.ID].TOTPSecret.Valid)
}

func TestDisableTwoFactorWhenNotEnabled(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := seedAdmin(t, svc)

	// No code required while two-factor is off.
	err := svc.DisableTwoFactor(context.Background(), user.ID, testPassword, "")
	assert.NoError(t, err)
}

func TestTwoFactorStatus(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := seedAdmin(t, svc)
	ctx := context.Background()

	enabled, err := svc.TwoFactorStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, enabled)

	secret, _, err := svc.SetupTwoFactor(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmTwoFactorSetup(ctx, user.ID, totp.ComputeCode(secret, svc.NowFunc())))

	enabled, err = svc.TwoFactorStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = svc.TwoFactorStatus(ctx, 999)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateAdminEmailTaken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	seedAdmin(t, svc)

	_, err := svc.CreateAdmin(context.Background(), "admin@example.com", "another password", "Other")
	assert.ErrorIs(t, err, utils.ErrEmailTaken)
}
