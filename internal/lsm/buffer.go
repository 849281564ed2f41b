package lsm

// WriteBuffer holds writes that have not been flushed to a segment yet.
// Entries keep insertion order and a key may appear more than once; the last
// one wins. WriteBuffer is not safe for concurrent use, the owning store
// serializes access to it.
type WriteBuffer struct {
	entries []Entry
}

// NewWriteBuffer creates an empty buffer.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{}
}

// Append records an entry.
func (b *WriteBuffer) Append(e Entry) {
	b.entries = append(b.entries, e)
}

// FindLatest returns the most recent entry for key. A tombstone is still a
// hit: callers must not look further once found is true.
func (b *WriteBuffer) FindLatest(key string) (Entry, bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Key == key {
			return b.entries[i], true
		}
	}
	return Entry{}, false
}

// Len returns the number of buffered entries, duplicates included.
func (b *WriteBuffer) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the buffered entries in insertion order.
func (b *WriteBuffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Clear drops every entry. Only call it after a successful flush.
func (b *WriteBuffer) Clear() {
	b.entries = nil
}
