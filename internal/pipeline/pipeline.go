// Package pipeline executes add/remove/adjust mutations against the remote
// collections and keeps the local mirrors truthful. Mutations patch the
// mirror from the mutation's own response; when the snapshot was superseded
// mid-flight the pipeline falls back to a full refresh instead of applying a
// stale patch.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/derive"
	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/mirror"
)

// Pipeline owns all cart and wishlist mutations.
type Pipeline struct {
	client   *api.Client
	cart     *mirror.Mirror[domain.CartLine]
	wishlist *mirror.Mirror[domain.WishlistEntry]
	gate     *Gate
	logger   *zap.Logger
}

func New(
	client *api.Client,
	cart *mirror.Mirror[domain.CartLine],
	wishlist *mirror.Mirror[domain.WishlistEntry],
	gate *Gate,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		client:   client,
		cart:     cart,
		wishlist: wishlist,
		gate:     gate,
		logger:   logger,
	}
}

// Gate exposes the shared single-flight gate so the checkout orchestrator
// participates in the same discipline.
func (p *Pipeline) Gate() *Gate {
	return p.gate
}

type addCartRequest struct {
	Product  domain.ID   `json:"product"`
	Size     domain.Size `json:"size"`
	Quantity int         `json:"quantity"`
}

type patchQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type addWishlistRequest struct {
	Product domain.ID `json:"product"`
}

// AddToCart adds quantity of (product, size) to the cart. A re-add for a
// pair that already has a line updates that line's quantity instead of
// creating a duplicate, preserving one-line-per-(product,size).
func (p *Pipeline) AddToCart(ctx context.Context, productID domain.ID, size domain.Size, quantity int) Outcome {
	if !size.Valid() {
		return Rejected(ReasonMissingSize)
	}
	if quantity < 1 {
		return Rejected(ReasonQuantityFloor)
	}
	if !p.client.Authenticated() {
		return Rejected(ReasonUnauthenticated)
	}

	key := fmt.Sprintf("cart:add:%s:%s", productID, size)
	if !p.gate.TryAcquire(key) {
		return Rejected(ReasonBusy)
	}
	defer p.gate.Release(key)

	snapshot, version := p.cart.Snapshot()

	if existing, ok := derive.FindCartLine(snapshot, derive.CartKey{ProductID: productID, Size: size}); ok {
		// The update rides on the existing line, so hold that key too.
		lineKey := "cart:line:" + existing.ID.String()
		if !p.gate.TryAcquire(lineKey) {
			return Rejected(ReasonBusy)
		}
		defer p.gate.Release(lineKey)
		return p.patchLine(ctx, existing, existing.Quantity+quantity, version)
	}

	var created domain.CartLine
	err := p.client.Post(ctx, "/cart/", addCartRequest{Product: productID, Size: size, Quantity: quantity}, &created)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return Rejected(ReasonUnauthenticated)
		}
		p.logger.Warn("Add to cart failed",
			zap.String("product_id", productID.String()),
			zap.String("size", string(size)),
			zap.Error(err),
		)
		return Failed(err)
	}

	if !p.cart.Append(version, created) {
		// Snapshot superseded while the request was in flight.
		p.refreshAfterStalePatch(ctx, p.cart.Refresh, "cart")
	}
	p.logger.Info("Added to cart",
		zap.String("product_id", productID.String()),
		zap.String("size", string(size)),
		zap.Int("quantity", quantity),
	)
	return Success()
}

// RemoveFromCart deletes the line with the given id from the remote cart and
// drops it from the mirror.
func (p *Pipeline) RemoveFromCart(ctx context.Context, lineID domain.ID) Outcome {
	if !p.client.Authenticated() {
		return Rejected(ReasonUnauthenticated)
	}

	key := "cart:line:" + lineID.String()
	if !p.gate.TryAcquire(key) {
		return Rejected(ReasonBusy)
	}
	defer p.gate.Release(key)

	snapshot, version := p.cart.Snapshot()
	if _, ok := derive.FindCartLineByID(snapshot, lineID); !ok {
		return Rejected(ReasonUnknownLine)
	}

	if err := p.client.Delete(ctx, "/cart/"+lineID.String()+"/"); err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return Rejected(ReasonUnauthenticated)
		}
		p.logger.Warn("Remove from cart failed", zap.String("line_id", lineID.String()), zap.Error(err))
		return Failed(err)
	}

	if !p.cart.Remove(version, func(l domain.CartLine) bool { return l.ID == lineID }) {
		p.refreshAfterStalePatch(ctx, p.cart.Refresh, "cart")
	}
	p.logger.Info("Removed from cart", zap.String("line_id", lineID.String()))
	return Success()
}

// AdjustQuantity changes a line's quantity by delta. A delta that would take
// the quantity below 1 is a clamp: rejected locally with no network call and
// no local change, not a removal.
func (p *Pipeline) AdjustQuantity(ctx context.Context, lineID domain.ID, delta int) Outcome {
	if !p.client.Authenticated() {
		return Rejected(ReasonUnauthenticated)
	}

	key := "cart:line:" + lineID.String()
	if !p.gate.TryAcquire(key) {
		return Rejected(ReasonBusy)
	}
	defer p.gate.Release(key)

	snapshot, version := p.cart.Snapshot()
	line, ok := derive.FindCartLineByID(snapshot, lineID)
	if !ok {
		return Rejected(ReasonUnknownLine)
	}

	newQuantity := line.Quantity + delta
	if newQuantity < 1 {
		return Rejected(ReasonQuantityFloor)
	}

	return p.patchLine(ctx, line, newQuantity, version)
}

// patchLine issues the quantity update and patches the mirror from the
// response. Callers hold the gate for the affected key.
func (p *Pipeline) patchLine(ctx context.Context, line domain.CartLine, newQuantity int, version uint64) Outcome {
	var updated domain.CartLine
	err := p.client.Patch(ctx, "/cart/"+line.ID.String()+"/", patchQuantityRequest{Quantity: newQuantity}, &updated)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return Rejected(ReasonUnauthenticated)
		}
		p.logger.Warn("Quantity update failed",
			zap.String("line_id", line.ID.String()),
			zap.Int("quantity", newQuantity),
			zap.Error(err),
		)
		return Failed(err)
	}

	if !p.cart.Replace(version, func(l domain.CartLine) bool { return l.ID == line.ID }, updated) {
		p.refreshAfterStalePatch(ctx, p.cart.Refresh, "cart")
	}
	p.logger.Info("Quantity updated",
		zap.String("line_id", line.ID.String()),
		zap.Int("quantity", newQuantity),
	)
	return Success()
}

// RemoveFromWishlist deletes the entry with the given id. The single-flight
// key is the owning product, so a direct removal and a toggle for the same
// product cannot interleave.
func (p *Pipeline) RemoveFromWishlist(ctx context.Context, entryID domain.ID) Outcome {
	if !p.client.Authenticated() {
		return Rejected(ReasonUnauthenticated)
	}

	snapshot, version := p.wishlist.Snapshot()
	var entry domain.WishlistEntry
	found := false
	for _, e := range snapshot {
		if e.ID == entryID {
			entry, found = e, true
			break
		}
	}
	if !found {
		return Rejected(ReasonUnknownLine)
	}

	key := "wishlist:" + entry.Product.ID().String()
	if !p.gate.TryAcquire(key) {
		return Rejected(ReasonBusy)
	}
	defer p.gate.Release(key)

	return p.removeWishlistEntry(ctx, entry, version)
}

// ToggleWishlist flips the product's wishlist membership using one
// consistent snapshot read for the whole toggle. It returns the outcome and
// the membership after a successful toggle.
func (p *Pipeline) ToggleWishlist(ctx context.Context, productID domain.ID) (Outcome, bool) {
	if !p.client.Authenticated() {
		return Rejected(ReasonUnauthenticated), false
	}

	key := "wishlist:" + productID.String()
	if !p.gate.TryAcquire(key) {
		return Rejected(ReasonBusy), false
	}
	defer p.gate.Release(key)

	snapshot, version := p.wishlist.Snapshot()

	if entry, ok := derive.FindWishlistEntry(snapshot, productID); ok {
		return p.removeWishlistEntry(ctx, entry, version), false
	}

	var created domain.WishlistEntry
	err := p.client.Post(ctx, "/wishlist/", addWishlistRequest{Product: productID}, &created)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return Rejected(ReasonUnauthenticated), false
		}
		p.logger.Warn("Add to wishlist failed", zap.String("product_id", productID.String()), zap.Error(err))
		return Failed(err), false
	}

	if !p.wishlist.Append(version, created) {
		p.refreshAfterStalePatch(ctx, p.wishlist.Refresh, "wishlist")
	}
	p.logger.Info("Added to wishlist", zap.String("product_id", productID.String()))
	return Success(), true
}

func (p *Pipeline) removeWishlistEntry(ctx context.Context, entry domain.WishlistEntry, version uint64) Outcome {
	if err := p.client.Delete(ctx, "/wishlist/"+entry.ID.String()+"/"); err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return Rejected(ReasonUnauthenticated)
		}
		p.logger.Warn("Remove from wishlist failed", zap.String("entry_id", entry.ID.String()), zap.Error(err))
		return Failed(err)
	}

	if !p.wishlist.Remove(version, func(e domain.WishlistEntry) bool { return e.ID == entry.ID }) {
		p.refreshAfterStalePatch(ctx, p.wishlist.Refresh, "wishlist")
	}
	p.logger.Info("Removed from wishlist", zap.String("entry_id", entry.ID.String()))
	return Success()
}

// refreshAfterStalePatch resolves a superseded snapshot by trusting the
// server over the optimistic local guess.
func (p *Pipeline) refreshAfterStalePatch(ctx context.Context, refresh func(context.Context) error, collection string) {
	p.logger.Debug("Snapshot superseded mid-flight, refreshing", zap.String("collection", collection))
	if err := refresh(ctx); err != nil {
		p.logger.Warn("Fallback refresh failed", zap.String("collection", collection), zap.Error(err))
	}
}
