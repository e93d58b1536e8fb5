package stubshop

import (
	"github.com/shopspring/decimal"

	"github.com/hishamali-gh/storefront/internal/domain"
)

// DefaultCatalog seeds the stub with a small demo catalog.
func DefaultCatalog() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "p1",
			Name:        "Monochrome Tee",
			Description: "Heavyweight cotton tee.",
			Price:       decimal.NewFromInt(500),
			Images:      []domain.Image{{URL: "https://cdn.example.com/p1-front.jpg"}, {URL: "https://cdn.example.com/p1-back.jpg"}},
			Category:    "men",
			ProductType: "tshirt",
		},
		{
			ID:          "p2",
			Name:        "Canvas Overshirt",
			Description: "Boxy fit, brushed canvas.",
			Price:       decimal.NewFromInt(1200),
			Images:      []domain.Image{{URL: "https://cdn.example.com/p2.jpg"}},
			Category:    "men",
			ProductType: "shirt",
		},
		{
			ID:          "p3",
			Name:        "Pleated Skirt",
			Description: "Mid-length, deep pleats.",
			Price:       decimal.NewFromInt(900),
			Images:      []domain.Image{{URL: "https://cdn.example.com/p3.jpg"}},
			Category:    "women",
			ProductType: "skirt",
		},
		{
			ID:          "p4",
			Name:        "Kids Rain Jacket",
			Description: "Packable shell.",
			Price:       decimal.NewFromInt(300),
			Category:    "kids",
			ProductType: "jacket",
		},
	}
}
