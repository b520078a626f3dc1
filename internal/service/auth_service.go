package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TavolaHQ/tavola_api/internal/config"
	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/totp"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// CredentialStore is the admin user row store consumed by AuthService.
// Implementations return (nil, nil) for absent users.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id int) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
	SetTOTPSecret(ctx context.Context, id int, secret string) error
	EnableTOTP(ctx context.Context, id int) error
	ClearTOTP(ctx context.Context, id int) error
}

// SessionStore is the session row store consumed by AuthService.
// GetActive returns (nil, nil) for missing or expired tokens; Delete of an
// absent token is a no-op.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetActive(ctx context.Context, token string, now time.Time) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// LoginResult is the outcome of a successful Login or VerifyTwoFactor call.
// Either RequiresTwoFactor is set with a PendingToken, or Token and User
// carry a fully authenticated session.
type LoginResult struct {
	RequiresTwoFactor bool
	PendingToken      string
	Token             string
	User              *models.AdminUser
}

// AuthService orchestrates the login state machine:
// Anonymous → PendingTwoFactor → Authenticated. All durable state lives in
// the stores; the service itself holds only configuration, so it is safe for
// concurrent use.
type AuthService struct {
	users    CredentialStore
	sessions SessionStore

	passwordSalt string
	issuer       string
	sessionTTL   time.Duration
	pendingTTL   time.Duration

	// injectable for unit and dev testing
	NowFunc          func() time.Time
	SessionTokenFunc func() (string, error)
	PendingTokenFunc func() (string, error)
}

// NewAuthService constructs an AuthService.
func NewAuthService(users CredentialStore, sessions SessionStore, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		users:            users,
		sessions:         sessions,
		passwordSalt:     cfg.PasswordSalt,
		issuer:           cfg.TOTPIssuer,
		sessionTTL:       cfg.SessionTTL,
		pendingTTL:       cfg.PendingTTL,
		NowFunc:          time.Now,
		SessionTokenFunc: utils.GenerateSessionToken,
		PendingTokenFunc: utils.GeneratePendingToken,
	}
}

// Login checks email+password. Unknown email and wrong password both return
// ErrInvalidCredentials so the response does not leak which one failed.
// Users with two-factor enabled get a short-lived pending token instead of a
// session; everyone else gets a full session immediately.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if !utils.VerifyPassword(password, s.passwordSalt, user.PasswordHash) {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	now := s.NowFunc()

	if user.TOTPEnabled {
		token, err := s.PendingTokenFunc()
		if err != nil {
			return nil, fmt.Errorf("generate pending token: %w", err)
		}
		if err := s.sessions.Create(ctx, &models.Session{
			UserID:    user.ID,
			Token:     token,
			ExpiresAt: now.Add(s.pendingTTL),
		}); err != nil {
			return nil, fmt.Errorf("create pending session: %w", err)
		}
		log.Info().Str("email", email).Msg("Login pending two-factor")
		return &LoginResult{RequiresTwoFactor: true, PendingToken: token}, nil
	}

	result, err := s.openSession(ctx, user, now)
	if err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Msg("Login successful")
	return result, nil
}

// VerifyTwoFactor exchanges a pending token plus a valid code for a full
// session. The pending token is at-most-one-use: it is deleted on success
// and a second submission fails with ErrSessionExpired.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, pendingToken, code string) (*LoginResult, error) {
	if !utils.IsPendingToken(pendingToken) {
		return nil, utils.ErrInvalidToken
	}

	now := s.NowFunc()
	session, err := s.sessions.GetActive(ctx, pendingToken, now)
	if err != nil {
		return nil, fmt.Errorf("get pending session: %w", err)
	}
	if session == nil {
		return nil, utils.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	if user == nil {
		return nil, utils.ErrSessionExpired
	}

	if !user.TOTPSecret.Valid || !totp.VerifyCode(user.TOTPSecret.String, code, now, totp.DriftWindow) {
		return nil, utils.ErrInvalidCode
	}

	if err := s.sessions.Delete(ctx, pendingToken); err != nil {
		return nil, fmt.Errorf("delete pending session: %w", err)
	}

	result, err := s.openSession(ctx, user, now)
	if err != nil {
		return nil, err
	}
	log.Info().Str("email", user.Email).Msg("Two-factor login successful")
	return result, nil
}

// VerifySession resolves a full session token to its user. Missing, expired,
// and pending-2FA tokens all yield (nil, nil): an invalid session is a normal
// negative result, not a fault.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*models.AdminUser, error) {
	if utils.IsPendingToken(token) {
		return nil, nil
	}

	session, err := s.sessions.GetActive(ctx, token, s.NowFunc())
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	return user, nil
}

// Logout deletes the session row for token. Unknown or already-expired
// tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SetupTwoFactor generates a fresh secret and stores it as pending
// (enabled=false), overwriting any earlier pending secret. Returns the
// secret and the otpauth provisioning URI for the enrollment QR.
func (s *AuthService) SetupTwoFactor(ctx context.Context, userID int) (secret, uri string, err error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return "", "", utils.ErrNotFound
	}

	secret, err = totp.GenerateSecret()
	if err != nil {
		return "", "", fmt.Errorf("generate secret: %w", err)
	}
	if err := s.users.SetTOTPSecret(ctx, userID, secret); err != nil {
		return "", "", fmt.Errorf("store pending secret: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("Two-factor setup started")
	return secret, totp.ProvisioningURI(s.issuer, user.Email, secret), nil
}

// ConfirmTwoFactorSetup promotes the pending secret to active once the user
// submits one valid code, proving the authenticator is synced before
// two-factor is enforced on future logins.
func (s *AuthService) ConfirmTwoFactorSetup(ctx context.Context, userID int, code string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return utils.ErrNotFound
	}
	if !user.TOTPSecret.Valid {
		return utils.ErrSetupNotStarted
	}
	if !totp.VerifyCode(user.TOTPSecret.String, code, s.NowFunc(), totp.DriftWindow) {
		return utils.ErrInvalidCode
	}
	if err := s.users.EnableTOTP(ctx, userID); err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	log.Info().Str("email", user.Email).Msg("Two-factor enabled")
	return nil
}

// DisableTwoFactor clears the secret and enabled flag. The password is
// always re-verified; while two-factor is active a valid current code is
// required as well.
func (s *AuthService) DisableTwoFactor(ctx context.Context, userID int, password, code string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return utils.ErrNotFound
	}
	if !utils.VerifyPassword(password, s.passwordSalt, user.PasswordHash) {
		return utils.ErrInvalidPassword
	}
	if user.TOTPEnabled {
		if code == "" {
			return utils.ErrTwoFactorCodeRequired
		}
		if !user.TOTPSecret.Valid || !totp.VerifyCode(user.TOTPSecret.String, code, s.NowFunc(), totp.DriftWindow) {
			return utils.ErrInvalidCode
		}
	}
	if err := s.users.ClearTOTP(ctx, userID); err != nil {
		return fmt.Errorf("clear totp: %w", err)
	}
	log.Info().Str("email", user.Email).Msg("Two-factor disabled")
	return nil
}

// TwoFactorStatus reports whether two-factor is enforced for the user.
func (s *AuthService) TwoFactorStatus(ctx context.Context, userID int) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return false, utils.ErrNotFound
	}
	return user.TOTPEnabled, nil
}

// CreateAdmin provisions a new admin user.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		return nil, utils.ErrEmailTaken
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: utils.HashPassword(password, s.passwordSalt),
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("email", email).Msg("Admin user created")
	return user, nil
}

// openSession creates a full session row and stamps last-login.
func (s *AuthService) openSession(ctx context.Context, user *models.AdminUser, now time.Time) (*LoginResult, error) {
	token, err := s.SessionTokenFunc()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	if err := s.sessions.Create(ctx, &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionTTL),
	}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt.Time = now
	user.LastLoginAt.Valid = true
	return &LoginResult{Token: token, User: user}, nil
}
