// Package derive computes membership and identity facts over mirrored
// collection snapshots. Everything here is a pure function over a slice, so
// it can be called freely while rendering; at storefront cart sizes the O(n)
// scans are fine.
package derive

import (
	"github.com/shopspring/decimal"

	"github.com/hishamali-gh/storefront/internal/domain"
)

// CartKey identifies a cart line: one line may exist per (product, size).
type CartKey struct {
	ProductID domain.ID
	Size      domain.Size
}

// FindCartLine locates the line for key, or false when absent.
func FindCartLine(lines []domain.CartLine, key CartKey) (domain.CartLine, bool) {
	for _, line := range lines {
		if line.Product.ID() == key.ProductID && line.Size == key.Size {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

// FindCartLineByID locates a line by its own id, or false when absent.
func FindCartLineByID(lines []domain.CartLine, id domain.ID) (domain.CartLine, bool) {
	for _, line := range lines {
		if line.ID == id {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

// InCart reports whether the (product, size) pair has a cart line.
func InCart(lines []domain.CartLine, key CartKey) bool {
	_, ok := FindCartLine(lines, key)
	return ok
}

// CartQuantity returns the quantity for key, or 0 when absent.
func CartQuantity(lines []domain.CartLine, key CartKey) int {
	if line, ok := FindCartLine(lines, key); ok {
		return line.Quantity
	}
	return 0
}

// CartSubtotal sums price x quantity over all lines. Lines whose product
// data did not arrive embedded contribute nothing; the server total remains
// authoritative either way.
func CartSubtotal(lines []domain.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		product, ok := line.Product.Product()
		if !ok {
			continue
		}
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// FindWishlistEntry locates the entry for a product id, or false when absent.
func FindWishlistEntry(entries []domain.WishlistEntry, productID domain.ID) (domain.WishlistEntry, bool) {
	for _, entry := range entries {
		if entry.Product.ID() == productID {
			return entry, true
		}
	}
	return domain.WishlistEntry{}, false
}

// Wishlisted reports whether the product has a wishlist entry.
func Wishlisted(entries []domain.WishlistEntry, productID domain.ID) bool {
	_, ok := FindWishlistEntry(entries, productID)
	return ok
}
