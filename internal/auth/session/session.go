// Package session issues and tracks short-lived admin sessions.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("session not found or expired")

// Method records how a request proved it holds the admin secret.
type Method string

const (
	MethodKey   Method = "key"
	MethodToken Method = "token"
)

// Session is an admin grant. Token is empty for requests that presented the secret directly.
type Session struct {
	Method    Method    `json:"method"`
	Token     string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps issued sessions until they expire. Implementations key by the
// token hash so the raw token never sits in the backend.
type Store interface {
	Save(ctx context.Context, tokenHash string, s Session) error
	Lookup(ctx context.Context, tokenHash string) (Session, error)
	Revoke(ctx context.Context, tokenHash string) error
	Close() error
}

// Manager issues opaque tokens with a fixed lifetime.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates and stores a new session.
func (m *Manager) Issue(ctx context.Context) (Session, error) {
	token, err := newToken()
	if err != nil {
		return Session{}, err
	}
	now := m.now().UTC()
	s := Session{
		Method:    MethodToken,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, hashToken(token), s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Lookup returns ErrNotFound for unknown, revoked or expired tokens.
func (m *Manager) Lookup(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNotFound
	}
	s, err := m.store.Lookup(ctx, hashToken(token))
	if err != nil {
		return Session{}, err
	}
	if !m.now().Before(s.ExpiresAt) {
		return Session{}, ErrNotFound
	}
	s.Method = MethodToken
	s.Token = token
	return s, nil
}

// Revoke deletes the session; revoking an unknown token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Revoke(ctx, hashToken(token))
}

func (m *Manager) Close() error {
	return m.store.Close()
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
