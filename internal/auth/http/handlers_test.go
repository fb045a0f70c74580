package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/middleware"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
)

type loginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func setup(ttl time.Duration) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)

	gate := auth.NewGate("s3cret")
	sessions := session.NewManager(session.NewMemoryStore(), ttl)
	h := New(gate, sessions, false)

	r := gin.New()
	h.Register(r.Group("/api/auth"), middleware.RequireAdmin(gate, sessions))
	return r, sessions
}

func TestLogin(t *testing.T) {
	r, sessions := setup(time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("X-Admin-Key", "s3cret")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Authentication successful", body.Message)
	assert.NotEmpty(t, body.Token)
	assert.False(t, body.ExpiresAt.IsZero())

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, body.Token, c.Value)
	assert.Equal(t, "/admin", c.Path)
	assert.Equal(t, 1, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	_, err := sessions.Lookup(req.Context(), body.Token)
	assert.NoError(t, err)
}

func TestLogin_WrongKey(t *testing.T) {
	r, _ := setup(time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("X-Admin-Key", "guess")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized: Invalid Admin Key"}`, rr.Body.String())
	assert.Empty(t, rr.Result().Cookies())
}

func TestLogout_RevokesBearerSession(t *testing.T) {
	r, sessions := setup(time.Hour)

	login := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	login.Header.Set("X-Admin-Key", "s3cret")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, login)
	var body loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	logout := httptest.NewRequest(http.MethodDelete, "/api/auth", nil)
	logout.Header.Set("Authorization", "Bearer "+body.Token)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, logout)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := sessions.Lookup(logout.Context(), body.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, logout)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "revoked token no longer authenticates")
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 1, maxAge(session.NewManager(session.NewMemoryStore(), 200*time.Millisecond)))
	assert.Equal(t, 300, maxAge(session.NewManager(session.NewMemoryStore(), 5*time.Minute)))
}
