package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when a persisted snapshot cannot be decoded.
var ErrCorrupt = errors.New("snapshot corrupt")

// Snapshots are small; anything larger is a hand-edited or foreign value.
const maxRecordSize = 16 * 1024

// Encode serializes a [Record] into the wire schema.
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, nil
}

// Decode parses a persisted snapshot. Unknown fields are tolerated (older
// and newer schemas round-trip through the same key), but the value must be
// a single JSON object. Any decode failure is [ErrCorrupt]; callers discard
// the snapshot entirely rather than salvaging fields.
func Decode(data []byte) (Record, error) {
	var r Record

	if len(data) == 0 || len(data) > maxRecordSize {
		return r, fmt.Errorf("%w: invalid size %d", ErrCorrupt, len(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// Trailing garbage after the object counts as corruption.
	if dec.More() {
		return Record{}, fmt.Errorf("%w: trailing data", ErrCorrupt)
	}

	return r, nil
}
