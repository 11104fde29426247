// Binary encoding for cached message blobs.
//
// Each value is one format byte followed by a gob stream of []ports.Message.
// Bumping formatVersion turns every older entry into a cache miss, so a
// changed Message shape never decodes into garbage.
package bbolt

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/corey/jsgettext/internal/ports"
)

const formatVersion byte = 1

var errStaleFormat = errors.New("stale cache format")

// encodeMessages encodes messages as formatVersion + gob.
func encodeMessages(msgs []ports.Message) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(formatVersion)
	if msgs == nil {
		msgs = []ports.Message{}
	}
	if err := gob.NewEncoder(&buf).Encode(msgs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeMessages reverses encodeMessages. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodeMessages(data []byte) ([]ports.Message, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	if data[0] != formatVersion {
		return nil, errStaleFormat
	}
	var msgs []ports.Message
	if err := gob.NewDecoder(bytes.NewReader(data[1:])).Decode(&msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []ports.Message{}
	}
	return msgs, nil
}
