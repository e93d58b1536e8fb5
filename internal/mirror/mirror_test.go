package mirror_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/derive"
	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/mirror"
	"github.com/hishamali-gh/storefront/internal/stubshop"
)

func newEnv(t *testing.T) (*stubshop.Store, *api.TokenStore, *api.Client) {
	t.Helper()

	store := stubshop.NewStore(decimal.NewFromInt(99))
	store.Seed(stubshop.DefaultCatalog()...)

	server := httptest.NewServer(stubshop.NewServer(store, zap.NewNop()).Router())
	t.Cleanup(server.Close)

	creds := &api.TokenStore{}
	creds.Set("test-token")
	client := api.NewClient(server.URL, creds, 0, zap.NewNop())
	return store, creds, client
}

func TestRefreshPopulatesCartMirror(t *testing.T) {
	store, _, client := newEnv(t)
	store.SeedCart("p1", domain.SizeM, 2)
	store.SeedCart("p2", domain.SizeL, 1)

	cart := mirror.NewCart(client, zap.NewNop())
	require.NoError(t, cart.Refresh(context.Background()))

	assert.Equal(t, 2, cart.Len())
	assert.True(t, cart.Authenticated())

	lines := cart.Items()
	assert.True(t, derive.InCart(lines, derive.CartKey{ProductID: "p1", Size: domain.SizeM}))

	// Listing embeds the full product; price must survive normalization.
	line, ok := derive.FindCartLine(lines, derive.CartKey{ProductID: "p1", Size: domain.SizeM})
	require.True(t, ok)
	product, ok := line.Product.Product()
	require.True(t, ok)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(500)))
}

func TestRefreshAcceptsEnvelopeListing(t *testing.T) {
	store, _, client := newEnv(t)
	store.SetEnvelope(true)
	store.SeedCart("p1", domain.SizeS, 1)

	cart := mirror.NewCart(client, zap.NewNop())
	require.NoError(t, cart.Refresh(context.Background()))
	assert.Equal(t, 1, cart.Len())
}

func TestRefreshWithoutCredentialClearsMirror(t *testing.T) {
	store, creds, client := newEnv(t)
	store.SeedCart("p1", domain.SizeM, 1)

	cart := mirror.NewCart(client, zap.NewNop())
	require.NoError(t, cart.Refresh(context.Background()))
	require.Equal(t, 1, cart.Len())

	creds.Clear()
	// No error: an unauthenticated collection is simply empty.
	require.NoError(t, cart.Refresh(context.Background()))
	assert.Equal(t, 0, cart.Len())
	assert.False(t, cart.Authenticated())
}

func TestRefreshFailureKeepsLastKnownSnapshot(t *testing.T) {
	store, _, client := newEnv(t)
	store.SeedWishlist("p1")
	store.SeedWishlist("p3")

	wishlist := mirror.NewWishlist(client, zap.NewNop())
	require.NoError(t, wishlist.Refresh(context.Background()))
	require.Equal(t, 2, wishlist.Len())

	before := wishlist.Items()

	store.FailOnce(stubshop.OpWishlistList)
	err := wishlist.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mirror.ErrFetchFailed)

	// Membership facts are unchanged; nothing was silently cleared.
	after := wishlist.Items()
	assert.Equal(t, len(before), len(after))
	assert.True(t, derive.Wishlisted(after, "p1"))
	assert.True(t, derive.Wishlisted(after, "p3"))
	assert.False(t, derive.Wishlisted(after, "p2"))
}

func TestRefreshFailureWithoutSnapshotStaysEmpty(t *testing.T) {
	store, _, client := newEnv(t)
	store.SeedCart("p1", domain.SizeM, 1)
	store.FailOnce(stubshop.OpCartList)

	cart := mirror.NewCart(client, zap.NewNop())
	err := cart.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, cart.Len())
}

func TestStalePatchIsRejectedByVersion(t *testing.T) {
	_, _, client := newEnv(t)
	cart := mirror.NewCart(client, zap.NewNop())

	_, version := cart.Snapshot()
	require.NoError(t, cart.Refresh(context.Background())) // bumps version

	line := domain.CartLine{ID: "l1", Product: domain.Ref("p1"), Size: domain.SizeM, Quantity: 1}
	assert.False(t, cart.Append(version, line), "patch against a superseded snapshot must not apply")
	assert.Equal(t, 0, cart.Len())

	_, current := cart.Snapshot()
	assert.True(t, cart.Append(current, line))
	assert.Equal(t, 1, cart.Len())
}

func TestItemsReturnsCopy(t *testing.T) {
	store, _, client := newEnv(t)
	store.SeedCart("p1", domain.SizeM, 1)

	cart := mirror.NewCart(client, zap.NewNop())
	require.NoError(t, cart.Refresh(context.Background()))

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity, "mutating the returned slice must not splice the mirror")
}
