package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
)

const HeaderAdminKey = "X-Admin-Key"

type sessionKey struct{}

// WithSession stores the resolved admin session in the request context.
func WithSession(c *gin.Context, s session.Session) {
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), sessionKey{}, s))
}

// SessionFrom returns the session set by the admin middleware.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
