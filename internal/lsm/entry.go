package lsm

import "github.com/heysubinoy/pyazkv/pkg/kv"

// Entry is a single record: a live value or a tombstone for Key.
type Entry struct {
	Key       string
	Value     kv.Value
	Tombstone bool
}

// LiveEntry returns an entry that sets key to value.
func LiveEntry(key string, value kv.Value) Entry {
	return Entry{Key: key, Value: value}
}

// TombstoneEntry returns an entry that marks key as deleted.
// Its value is a null placeholder so it always encodes cleanly.
func TombstoneEntry(key string) Entry {
	return Entry{Key: key, Value: kv.Null(), Tombstone: true}
}

// Resolve returns the value the entry makes visible to readers.
// A tombstone resolves to an absent value.
func (e Entry) Resolve() (kv.Value, bool) {
	if e.Tombstone {
		return kv.Absent(), false
	}
	return e.Value, true
}
