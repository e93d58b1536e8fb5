package domain

// WishlistEntry is a single wishlisted product. At most one entry exists per
// product id.
//
// The wishlist endpoint sends the product reference as a bare id and, on
// listing, the full product separately under product_details.
type WishlistEntry struct {
	ID      ID         `json:"id"`
	Product ProductRef `json:"product"`
	Details *Product   `json:"product_details,omitempty"`
}
