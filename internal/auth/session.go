package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionContextKey = "auth_session"

// Session is the authenticated caller of a request. It is resolved by the
// middleware and passed explicitly to the session workflow.
type Session struct {
	CredentialID uuid.UUID
	Username     string
	Token        string
}

// SetSession stores the session on the gin context
func SetSession(c *gin.Context, session *Session) {
	c.Set(sessionContextKey, session)
	c.Set("username", session.Username)
}

// GetSession extracts the session stored by RequireAuth
func GetSession(c *gin.Context) (*Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*Session)
	return session, ok && session != nil
}
