package auth

import (
	"net/http"
	"strings"

	"tenant-portal-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// SessionResolver turns a token into a session
type SessionResolver interface {
	Authenticate(token string) (*Session, error)
}

// AuthMiddleware provides token authentication middleware
type AuthMiddleware struct {
	resolver SessionResolver
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// ExtractToken reads the token from "Authorization: Token <key>" or "Authorization: Bearer <key>"
func ExtractToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth validates the token and stores the session on the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided."})
			c.Abort()
			return
		}

		tokenString, ok := ExtractToken(authHeader)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		session, err := m.resolver.Authenticate(tokenString)
		if err != nil {
			logger.FromGinContext(c).WithError(err).Debug("token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			c.Abort()
			return
		}

		SetSession(c, session)
		c.Next()
	}
}
