package auth

import "crypto/subtle"

// Gate checks a presented admin key against the configured secret.
type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// IsAuthorized is true iff a secret is configured and provided equals it
// byte for byte. The comparison time does not depend on where they differ.
func (g *Gate) IsAuthorized(provided string) bool {
	if g == nil || len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(provided)) == 1
}

// Configured reports whether any secret is set.
func (g *Gate) Configured() bool {
	return g != nil && len(g.secret) > 0
}
