// internal/cache/persist.go
package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Where the last applied Update is kept between restarts.
const (
	StateNamespace = "bot"
	StateKey       = "state"
)

// Encode encodes u for storage.
func (u Update) Encode() ([]byte, error) {
	raw, err := cbor.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("cache: encode update: %w", err)
	}
	return raw, nil
}

// DecodeUpdate decodes a stored Update.
func DecodeUpdate(raw []byte) (Update, error) {
	var u Update
	if err := cbor.Unmarshal(raw, &u); err != nil {
		return Update{}, fmt.Errorf("cache: decode update: %w", err)
	}
	return u, nil
}
