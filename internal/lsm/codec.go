package lsm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/heysubinoy/pyazkv/pkg/kv"
)

// Codec turns an Entry into a single segment line and back.
// Encoded lines must not contain a newline.
type Codec interface {
	Encode(e Entry) ([]byte, error)
	Decode(line []byte) (Entry, error)
}

// JSONCodec stores each entry as a three element JSON array:
//
//	["key", value, tombstone]
type JSONCodec struct{}

var _ Codec = JSONCodec{}

// Encode implements Codec.
func (JSONCodec) Encode(e Entry) ([]byte, error) {
	if err := kv.ValidateKey(e.Key); err != nil {
		return nil, err
	}
	value := e.Value
	if value.IsAbsent() {
		if !e.Tombstone {
			return nil, kv.ErrAbsentValue
		}
		value = kv.Null()
	}
	return json.Marshal([]any{e.Key, value, e.Tombstone})
}

// Decode implements Codec.
func (JSONCodec) Decode(line []byte) (Entry, error) {
	var record []json.RawMessage
	if err := json.Unmarshal(line, &record); err != nil {
		return Entry{}, err
	}
	if len(record) != 3 {
		return Entry{}, fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	keyRaw := bytes.TrimSpace(record[0])
	if len(keyRaw) == 0 || keyRaw[0] != '"' {
		return Entry{}, fmt.Errorf("key is not a string: %s", keyRaw)
	}
	var key string
	if err := json.Unmarshal(keyRaw, &key); err != nil {
		return Entry{}, fmt.Errorf("key: %w", err)
	}

	value, err := kv.Parse(record[1])
	if err != nil {
		return Entry{}, fmt.Errorf("value: %w", err)
	}

	var tombstone bool
	switch string(bytes.TrimSpace(record[2])) {
	case "true":
		tombstone = true
	case "false":
	default:
		return Entry{}, fmt.Errorf("tombstone is not a bool: %s", record[2])
	}

	return Entry{Key: key, Value: value, Tombstone: tombstone}, nil
}
