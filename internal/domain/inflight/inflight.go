// Package inflight tracks rounds with a shortlist run in progress so
// concurrent runs on the same round fail fast instead of racing.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard hands out at most one hold per key at a time.
type Guard interface {
	// TryAcquire attempts to take the hold for key. Returns false if some
	// other caller already holds it. Non-blocking.
	TryAcquire(ctx context.Context, key string) bool

	// Release gives the hold for key back. Releasing an unheld key is a
	// no-op.
	Release(ctx context.Context, key string)

	// Size returns the number of keys currently held.
	Size() int64
}

// inMemoryGuard implements Guard with a mutex-protected set.
type inMemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
	size atomic.Int64
}

// NewInMemoryGuard creates an empty in-memory guard.
func NewInMemoryGuard() Guard {
	return &inMemoryGuard{held: make(map[string]struct{})}
}

func (g *inMemoryGuard) TryAcquire(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	g.size.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		delete(g.held, key)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
