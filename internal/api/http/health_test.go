package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func serveHealth(t *testing.T, store Pinger) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewHealthHandler("test-service", "1.0.0", "sqlite", store).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestHealthCheck(t *testing.T) {
	response := serveHealth(t, fakePinger{})

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
	if response.Service != "test-service" {
		t.Errorf("expected service 'test-service', got %s", response.Service)
	}
	if response.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %s", response.Version)
	}
	if response.Store != "up" {
		t.Errorf("expected store 'up', got %s", response.Store)
	}
	if response.Driver != "sqlite" {
		t.Errorf("expected driver 'sqlite', got %s", response.Driver)
	}
}

func TestHealthCheckStoreDown(t *testing.T) {
	response := serveHealth(t, fakePinger{err: errors.New("connection refused")})
	if response.Store != "down" {
		t.Errorf("expected store 'down', got %s", response.Store)
	}
}

func TestHealthCheckWithoutStore(t *testing.T) {
	response := serveHealth(t, nil)
	if response.Store != "disabled" {
		t.Errorf("expected store 'disabled', got %s", response.Store)
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("test-service", "1.0.0", "sqlite", nil).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))

	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusMethodNotAllowed)
	}
}
