package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Image is a single product image.
type Image struct {
	URL string `json:"url"`
}

// Product represents a catalog product. It is read-only from the client's
// perspective: the store fetches it, never mutates it.
type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Images      []Image         `json:"images,omitempty"`
	Category    string          `json:"category,omitempty"`
	ProductType string          `json:"product_type,omitempty"`
}

// UnmarshalJSON folds the legacy single "image" field into Images. Older
// endpoints return `"image": "..."` where newer ones return `"images":
// [{"url": ...}]`; internally only the multi-image form exists.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		Image string `json:"image"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(p.Images) == 0 && aux.Image != "" {
		p.Images = []Image{{URL: aux.Image}}
	}
	return nil
}

// ImageURL returns the primary image URL, or false when the product carries
// no image data. Absence is explicit; no placeholder is guessed here.
func (p *Product) ImageURL() (string, bool) {
	if p == nil || len(p.Images) == 0 || p.Images[0].URL == "" {
		return "", false
	}
	return p.Images[0].URL, true
}

// ProductRef is a reference to a product as it appears inside a collection
// entry. The upstream API sometimes embeds the full product object and
// sometimes sends a bare id; normalization to an ID happens here, once, at
// decode time, so nothing downstream ever compares an id to an object.
type ProductRef struct {
	id      ID
	product *Product
}

// Ref creates a reference from a bare product id.
func Ref(id ID) ProductRef {
	return ProductRef{id: id}
}

// Embed creates a reference carrying the full product.
func Embed(p *Product) ProductRef {
	if p == nil {
		return ProductRef{}
	}
	return ProductRef{id: p.ID, product: p}
}

// ID returns the referenced product id regardless of wire representation.
func (r ProductRef) ID() ID {
	return r.id
}

// Product returns the embedded product, or false when the entry arrived with
// a bare id only.
func (r ProductRef) Product() (*Product, bool) {
	return r.product, r.product != nil
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ProductRef{}
		return nil
	}

	if data[0] == '{' {
		var p Product
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("invalid product object: %w", err)
		}
		r.product = &p
		r.id = p.ID
		return nil
	}

	r.product = nil
	return json.Unmarshal(data, &r.id)
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.product != nil {
		return json.Marshal(r.product)
	}
	return json.Marshal(r.id)
}
