package domain

// ShippingForm holds the shipping details entered during one checkout
// attempt. All fields are required and must be non-blank after trimming;
// validity is re-checked on every submission, never cached.
type ShippingForm struct {
	Name       string `json:"name" validate:"notblank"`
	Address    string `json:"address" validate:"notblank"`
	City       string `json:"city" validate:"notblank"`
	PostalCode string `json:"postalCode" validate:"notblank"`
	Phone      string `json:"phone" validate:"notblank"`
}

// Reset clears all fields.
func (f *ShippingForm) Reset() {
	*f = ShippingForm{}
}
