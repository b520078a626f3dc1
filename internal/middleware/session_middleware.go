package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// SessionMiddleware authenticates admin requests with a Bearer session token.
type SessionMiddleware struct {
	authService *service.AuthService
}

// NewSessionMiddleware constructs a new SessionMiddleware.
func NewSessionMiddleware(authService *service.AuthService) *SessionMiddleware {
	return &SessionMiddleware{authService: authService}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Bearer token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Error(c, 401, "Missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Resolve session. An invalid session is a normal negative, not
		// a fault; only store errors are 500s.
		user, err := m.authService.VerifySession(c.Request.Context(), token)
		if err != nil {
			utils.Error(c, 500, "Session lookup failed")
			c.Abort()
			return
		}
		if user == nil {
			utils.Error(c, 401, "Invalid or expired session")
			c.Abort()
			return
		}

		// 3. Set context values
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("token", token)

		c.Next()
	}
}
