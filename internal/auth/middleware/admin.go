package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
	"github.com/adminpanel-sm/adminpanel-backend/internal/logging"
)

const unauthorizedMessage = "Unauthorized: Invalid Admin Key"

// RequireAdmin admits requests carrying the admin secret in X-Admin-Key or a
// live session token as Authorization: Bearer. Anything else gets a 401
// before the handler, and so the store, is reached.
func RequireAdmin(gate *auth.Gate, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(auth.HeaderAdminKey); key != "" && gate.IsAuthorized(key) {
			auth.WithSession(c, session.Session{Method: session.MethodKey})
			c.Next()
			return
		}

		if token := auth.BearerToken(c); token != "" && sessions != nil {
			s, err := sessions.Lookup(c.Request.Context(), token)
			if err == nil {
				auth.WithSession(c, s)
				c.Next()
				return
			}
			if !errors.Is(err, session.ErrNotFound) {
				logging.FromContext(c.Request.Context()).Warn("session lookup failed", zap.Error(err))
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthorizedMessage})
	}
}
