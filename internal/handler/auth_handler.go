package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/middleware"
	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/utils"
	"github.com/TavolaHQ/tavola_api/pkg/qrimg"
)

// AuthHandler exposes login, session, and two-factor endpoints. Auth
// responses use explicit per-endpoint shapes rather than the shared CRUD
// envelope; each is a flat object with a success boolean.
type AuthHandler struct {
	authService *service.AuthService
	qr          *qrimg.Client
	limiter     *middleware.InvalidAuthRateLimiter
	setupKey    string
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, qr *qrimg.Client, setupKey string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		qr:          qr,
		limiter:     middleware.NewInvalidAuthRateLimiter(),
		setupKey:    setupKey,
	}
}

// userResponse is the admin user shape returned to the frontend.
type userResponse struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	TOTPEnabled bool       `json:"totpEnabled"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func toUserResponse(u *models.AdminUser) userResponse {
	resp := userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		TOTPEnabled: u.TOTPEnabled,
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.authFailure(c, err)
		return
	}

	if result.RequiresTwoFactor {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"requires2FA": true,
			"tempToken":   result.PendingToken,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	})
}

// VerifyTwoFactor handles POST /v1/auth/verify-2fa
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req struct {
		TempToken string `json:"tempToken" binding:"required"`
		Code      string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(c.Request.Context(), req.TempToken, req.Code)
	if err != nil {
		h.authFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	})
}

// Logout handles POST /v1/auth/logout. Logging out an unknown or expired
// token is a no-op that still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		h.fail(c, http.StatusBadRequest, "Missing authorization header")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify handles GET /v1/auth/verify. An invalid or expired session is a
// normal negative: 200 with valid=false, never an error status.
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	user, err := h.authService.VerifySession(c.Request.Context(), token)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Session lookup failed")
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": toUserResponse(user)})
}

// SetupTwoFactor handles POST /v1/auth/2fa/setup (session required).
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	userID := c.GetInt("user_id")

	secret, uri, err := h.authService.SetupTwoFactor(c.Request.Context(), userID)
	if err != nil {
		h.authFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"secret":         secret,
		"otpauthUrl":     uri,
		"qrCodeImageUrl": h.qr.ImageURL(uri),
	})
}

// ConfirmTwoFactor handles POST /v1/auth/2fa/verify (session required).
func (h *AuthHandler) ConfirmTwoFactor(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ConfirmTwoFactorSetup(c.Request.Context(), c.GetInt("user_id"), req.Code); err != nil {
		h.authFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DisableTwoFactor handles POST /v1/auth/2fa/disable (session required).
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.DisableTwoFactor(c.Request.Context(), c.GetInt("user_id"), req.Password, req.Code); err != nil {
		h.authFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TwoFactorStatus handles GET /v1/auth/2fa/status (session required).
func (h *AuthHandler) TwoFactorStatus(c *gin.Context) {
	enabled, err := h.authService.TwoFactorStatus(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		h.authFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enabled": enabled})
}

// Register handles POST /v1/auth/register. Admin provisioning is out-of-band:
// the request must carry the configured setup key or it is forbidden.
func (h *AuthHandler) Register(c *gin.Context) {
	if h.setupKey == "" || c.GetHeader("X-Setup-Key") != h.setupKey {
		h.fail(c, http.StatusForbidden, "Admin registration is not allowed")
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.CreateAdmin(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.authFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": toUserResponse(user)})
}

// authFailure maps service errors to HTTP responses, rate-limiting repeated
// credential failures per IP.
func (h *AuthHandler) authFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidCredentials),
		errors.Is(err, utils.ErrInvalidCode),
		errors.Is(err, utils.ErrInvalidPassword):
		if !h.limiter.Allow(c.ClientIP()) {
			h.fail(c, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}
		h.fail(c, http.StatusUnauthorized, errorMessage(err))
	case errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, utils.ErrSessionExpired):
		h.fail(c, http.StatusUnauthorized, errorMessage(err))
	case errors.Is(err, utils.ErrSetupNotStarted),
		errors.Is(err, utils.ErrTwoFactorCodeRequired),
		errors.Is(err, utils.ErrEmailTaken):
		h.fail(c, http.StatusBadRequest, errorMessage(err))
	case errors.Is(err, utils.ErrNotFound):
		h.fail(c, http.StatusNotFound, errorMessage(err))
	default:
		h.fail(c, http.StatusInternalServerError, "Internal error")
	}
}

// errorMessage translates sentinel errors to human-readable strings.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, utils.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, utils.ErrSessionExpired):
		return "Session expired, log in again"
	case errors.Is(err, utils.ErrInvalidCode):
		return "Invalid two-factor code"
	case errors.Is(err, utils.ErrSetupNotStarted):
		return "Two-factor setup has not been started"
	case errors.Is(err, utils.ErrInvalidPassword):
		return "Invalid password"
	case errors.Is(err, utils.ErrTwoFactorCodeRequired):
		return "A two-factor code is required"
	case errors.Is(err, utils.ErrEmailTaken):
		return "Email is already registered"
	case errors.Is(err, utils.ErrNotFound):
		return "Not found"
	}
	return err.Error()
}

// fail writes a flat auth error response.
func (h *AuthHandler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// bearerToken extracts the Bearer token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
