package http

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
	"github.com/adminpanel-sm/adminpanel-backend/internal/logging"
)

const (
	CookieName = "admin-access"
	cookiePath = "/admin"
)

// Handler serves /api/auth.
type Handler struct {
	gate         *auth.Gate
	sessions     *session.Manager
	cookieSecure bool
}

func New(gate *auth.Gate, sessions *session.Manager, cookieSecure bool) *Handler {
	return &Handler{gate: gate, sessions: sessions, cookieSecure: cookieSecure}
}

// Register attaches the auth routes. requireAdmin guards session revocation.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	rg.POST("", h.login)
	rg.DELETE("", requireAdmin, h.logout)
}

// login exchanges the admin secret for a session token and cookie.
func (h *Handler) login(c *gin.Context) {
	if !h.gate.IsAuthorized(c.GetHeader(auth.HeaderAdminKey)) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized: Invalid Admin Key",
		})
		return
	}

	s, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server error processing request",
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, s.Token, maxAge(h.sessions), cookiePath, "", h.cookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Authentication successful",
		"token":      s.Token,
		"expires_at": s.ExpiresAt,
	})
}

// logout revokes the bearer session, if any, and clears the cookie.
func (h *Handler) logout(c *gin.Context) {
	if s, ok := auth.SessionFrom(c.Request.Context()); ok && s.Method == session.MethodToken {
		if err := h.sessions.Revoke(c.Request.Context(), s.Token); err != nil {
			logging.FromContext(c.Request.Context()).Error("revoke session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error processing request"})
			return
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, cookiePath, "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session revoked"})
}

// maxAge is the cookie lifetime in whole seconds, never below one.
func maxAge(m *session.Manager) int {
	secs := int(math.Ceil(m.TTL().Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
