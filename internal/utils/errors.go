package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials    = errors.New("INVALID_CREDENTIALS")
	ErrInvalidToken          = errors.New("INVALID_TOKEN")
	ErrSessionExpired        = errors.New("SESSION_EXPIRED")
	ErrInvalidCode           = errors.New("INVALID_CODE")
	ErrSetupNotStarted       = errors.New("SETUP_NOT_STARTED")
	ErrInvalidPassword       = errors.New("INVALID_PASSWORD")
	ErrTwoFactorCodeRequired = errors.New("TWO_FACTOR_CODE_REQUIRED")
	ErrEmailTaken            = errors.New("EMAIL_TAKEN")
	ErrNotFound              = errors.New("NOT_FOUND")
	ErrInvalidStatus         = errors.New("INVALID_STATUS")
)
