package pipeline

import "sync"

// Gate enforces single-flight per mutation key: a second request for a key
// already in flight is rejected synchronously, never queued, so the shopper
// gets immediate feedback instead of a delayed surprise.
type Gate struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{inflight: make(map[string]struct{})}
}

// TryAcquire claims key, reporting false when it is already held.
func (g *Gate) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.inflight[key]; held {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

// Release frees key. Releasing an unheld key is a no-op.
func (g *Gate) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, key)
}
