// Package docstoretest provides throwaway stores for tests in other packages.
package docstoretest

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
)

// NewSQLite returns an in-memory SQLite store closed at test cleanup.
func NewSQLite(t testing.TB) *docstore.SQLite {
	t.Helper()
	s, err := docstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// NewRedis returns a store backed by a miniredis server, plus the server so
// tests can inspect keys or fast-forward time.
func NewRedis(t testing.TB) (*docstore.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := docstore.NewRedis(client, "test:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

// Failing wraps a store and makes every write fail with Err.
type Failing struct {
	docstore.Store
	Err error
}

func (f *Failing) Create(context.Context, string, map[string]any) error { return f.Err }
func (f *Failing) Set(context.Context, string, map[string]any) error    { return f.Err }
func (f *Failing) Delete(context.Context, string) error                 { return f.Err }
func (f *Failing) Add(context.Context, string, map[string]any) (string, error) {
	return "", f.Err
}

// Gated wraps a store so that Get calls on Path block until Readers of them
// have arrived. It forces read-modify-write cycles to interleave.
type Gated struct {
	docstore.Store
	Path    string
	Readers int

	once    sync.Once
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (g *Gated) Get(ctx context.Context, docPath string) (docstore.Document, error) {
	doc, err := g.Store.Get(ctx, docPath)
	if docPath != g.Path {
		return doc, err
	}

	g.once.Do(func() { g.release = make(chan struct{}) })

	g.mu.Lock()
	g.arrived++
	if g.arrived == g.Readers {
		close(g.release)
	}
	g.mu.Unlock()

	select {
	case <-g.release:
	case <-ctx.Done():
		return docstore.Document{}, ctx.Err()
	}
	return doc, err
}
