// internal/status/encode.go
package status

import (
	"bytes"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

// MarshalJSON encodes the snapshot as one flat object in canonical key order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range s.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalCBOR encodes the snapshot as one flat CBOR map.
func (s Snapshot) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.Map())
}
