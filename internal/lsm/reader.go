package lsm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a parsed segment: entries sorted by key with no duplicates.
type Table struct {
	path    string
	entries []Entry
}

// Path returns the file the table was loaded from.
func (t *Table) Path() string { return t.path }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the records in key order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Find binary searches the table for key.
func (t *Table) Find(key string) (Entry, bool) {
	first, last := 0, len(t.entries)-1
	for first <= last {
		mid := first + (last-first)/2
		switch k := t.entries[mid].Key; {
		case k == key:
			return t.entries[mid], true
		case k > key:
			last = mid - 1
		default:
			first = mid + 1
		}
	}
	return Entry{}, false
}

// SegmentReader loads segment files.
type SegmentReader struct {
	codec Codec
}

// NewSegmentReader creates a reader that decodes lines with codec.
func NewSegmentReader(codec Codec) *SegmentReader {
	return &SegmentReader{codec: codec}
}

// Load reads and parses a whole segment. Blank lines, including a trailing
// one, are skipped. Any line that fails to decode makes the whole segment
// unreadable.
func (r *SegmentReader) Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment: %w", err)
	}

	name := filepath.Base(path)
	t := &Table{path: path}
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		e, err := r.codec.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorruptSegment, name, i+1, err)
		}
		if n := len(t.entries); n > 0 && t.entries[n-1].Key >= e.Key {
			return nil, fmt.Errorf("%w: %s line %d: key %q out of order", ErrCorruptSegment, name, i+1, e.Key)
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Lookup loads the segment at path and searches it for key.
func (r *SegmentReader) Lookup(path, key string) (Entry, bool, error) {
	t, err := r.Load(path)
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := t.Find(key)
	return e, ok, nil
}
