package domain

import (
	"bytes"
	"encoding/json"
)

// Collection decodes a remote listing response. Listing endpoints are
// inconsistent about shape: some return a bare JSON array, others a container
// object with an "items" field. Consumers always see a flat ordered slice.
type Collection[T any] struct {
	Items []T
}

func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &c.Items)
	}

	var container struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &container); err != nil {
		return err
	}
	c.Items = container.Items
	return nil
}
