package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
)

func newRouter(t *testing.T) (*gin.Engine, *session.Manager, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(session.NewMemoryStore(), time.Minute)
	reached := false

	r := gin.New()
	r.POST("/guarded", RequireAdmin(auth.NewGate("s3cret"), sessions), func(c *gin.Context) {
		reached = true
		s, ok := auth.SessionFrom(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"method": s.Method})
	})
	return r, sessions, &reached
}

func TestRequireAdmin(t *testing.T) {
	r, sessions, reached := newRouter(t)
	issued, err := sessions.Issue(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantMethod session.Method
	}{
		{"no credentials", nil, http.StatusUnauthorized, ""},
		{"wrong key", map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized, ""},
		{"secret key", map[string]string{"X-Admin-Key": "s3cret"}, http.StatusOK, session.MethodKey},
		{"unknown bearer", map[string]string{"Authorization": "Bearer abc"}, http.StatusUnauthorized, ""},
		{"issued bearer", map[string]string{"Authorization": "Bearer " + issued.Token}, http.StatusOK, session.MethodToken},
		{"wrong key falls through to bearer", map[string]string{
			"X-Admin-Key":   "nope",
			"Authorization": "bearer " + issued.Token,
		}, http.StatusOK, session.MethodToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*reached = false
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.False(t, *reached)
				assert.Equal(t, "Unauthorized: Invalid Admin Key", body["message"])
				return
			}
			assert.True(t, *reached)
			assert.Equal(t, string(tt.wantMethod), body["method"])
		})
	}
}
