package domain

import (
	"fmt"
	"strings"
)

// Size is a garment size.
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Sizes lists all valid sizes in display order.
func Sizes() []Size {
	return []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}
}

// Valid reports whether s is one of the known sizes.
func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL:
		return true
	}
	return false
}

// ParseSize normalizes user input to a Size.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToUpper(strings.TrimSpace(s)))
	if !size.Valid() {
		return "", fmt.Errorf("invalid size %q", s)
	}
	return size, nil
}

// CartLine is a single line in the shopper's cart. At most one line exists
// per (product, size) pair, and Quantity is never below 1.
type CartLine struct {
	ID       ID         `json:"id"`
	Product  ProductRef `json:"product"`
	Size     Size       `json:"size"`
	Quantity int        `json:"quantity"`
}
