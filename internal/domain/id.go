package domain

import (
	"encoding/json"
	"fmt"
)

// ID identifies an entity in the remote store. The upstream API is not
// consistent about id representation (JSON strings vs numbers), so decoding
// accepts both and normalizes to a string.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %q: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}
