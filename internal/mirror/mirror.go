// Package mirror holds the local, refreshable copies of server-side
// collections (cart, wishlist). A mirror is the single shared mutable
// resource per collection: it is replaced wholesale on refresh and patched
// only through the mutation pipeline, never spliced by UI code.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/domain"
)

// ErrFetchFailed marks a refresh that could not reach or decode the remote
// collection. The mirror keeps its last-known-good snapshot in that case.
var ErrFetchFailed = errors.New("collection fetch failed")

// Mirror is a fetch-and-normalize adapter over one remote collection.
type Mirror[T any] struct {
	name   string
	path   string
	client *api.Client
	logger *zap.Logger

	mu      sync.Mutex
	items   []T
	loaded  bool // a successful snapshot exists
	authed  bool
	version uint64
}

// NewCart creates the cart mirror.
func NewCart(client *api.Client, logger *zap.Logger) *Mirror[domain.CartLine] {
	return &Mirror[domain.CartLine]{name: "cart", path: "/cart/", client: client, logger: logger}
}

// NewWishlist creates the wishlist mirror.
func NewWishlist(client *api.Client, logger *zap.Logger) *Mirror[domain.WishlistEntry] {
	return &Mirror[domain.WishlistEntry]{name: "wishlist", path: "/wishlist/", client: client, logger: logger}
}

// Refresh replaces the snapshot from the remote listing.
//
// When no credential is present the mirror is cleared and treated as empty
// rather than failing the caller; surfaces that require a session check
// Authenticated separately. On transport or decode failure the last-known
// snapshot is kept (or the mirror stays empty if it never loaded) and an
// ErrFetchFailed is returned for the caller to report.
func (m *Mirror[T]) Refresh(ctx context.Context) error {
	var page domain.Collection[T]
	err := m.client.Get(ctx, m.path, &page)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		m.items = nil
		m.loaded = false
		m.authed = false
		m.version++
		m.logger.Debug("Mirror cleared, no credential", zap.String("collection", m.name))
		return nil

	case err != nil:
		m.logger.Warn("Mirror refresh failed, keeping last known snapshot",
			zap.String("collection", m.name),
			zap.Bool("has_snapshot", m.loaded),
			zap.Error(err),
		)
		return fmt.Errorf("refresh %s: %w: %w", m.name, ErrFetchFailed, err)
	}

	m.items = page.Items
	m.loaded = true
	m.authed = true
	m.version++
	m.logger.Debug("Mirror refreshed",
		zap.String("collection", m.name),
		zap.Int("items", len(page.Items)),
	)
	return nil
}

// Items returns a copy of the current snapshot.
func (m *Mirror[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

// Snapshot returns the current items together with the version they belong
// to, as one consistent read.
func (m *Mirror[T]) Snapshot() ([]T, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...), m.version
}

// Len returns the number of items in the snapshot.
func (m *Mirror[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Version identifies the current snapshot. Every change bumps it; mutations
// captured against an older version must not patch the mirror (stale-response
// guard) and fall back to a full refresh instead.
func (m *Mirror[T]) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// Authenticated reports whether the last refresh ran with a credential.
func (m *Mirror[T]) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authed
}

// Append adds an item if the snapshot version still matches expected.
// Reports whether the patch was applied.
func (m *Mirror[T]) Append(expected uint64, item T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != expected {
		return false
	}
	m.items = append(m.items, item)
	m.version++
	return true
}

// Remove drops the first item matching pred if the version still matches.
func (m *Mirror[T]) Remove(expected uint64, pred func(T) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != expected {
		return false
	}
	for i, item := range m.items {
		if pred(item) {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.version++
			return true
		}
	}
	// Nothing matched; the mirror is unchanged but the patch is settled.
	return true
}

// Replace swaps the first item matching pred if the version still matches.
func (m *Mirror[T]) Replace(expected uint64, pred func(T) bool, item T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != expected {
		return false
	}
	for i, existing := range m.items {
		if pred(existing) {
			m.items[i] = item
			m.version++
			return true
		}
	}
	return false
}

// Clear empties the snapshot unconditionally (e.g. after checkout cleared
// the server-side cart).
func (m *Mirror[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.version++
}
