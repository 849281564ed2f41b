package lsm

// LookupCoordinator resolves a key across the write buffer and every segment
// in a directory. The buffer is always newer than any segment, and a higher
// segment index is newer than a lower one; the first record found wins,
// tombstones included.
type LookupCoordinator struct {
	buffer *WriteBuffer
	dir    string
	reader *SegmentReader
}

// NewLookupCoordinator creates a coordinator over buffer and the segments in dir.
func NewLookupCoordinator(buffer *WriteBuffer, dir string, reader *SegmentReader) *LookupCoordinator {
	return &LookupCoordinator{
		buffer: buffer,
		dir:    dir,
		reader: reader,
	}
}

// Get returns the newest entry for key. It reports false only when no source
// has any record of the key.
func (c *LookupCoordinator) Get(key string) (Entry, bool, error) {
	if e, ok := c.buffer.FindLatest(key); ok {
		return e, true, nil
	}

	segments, err := ListSegments(c.dir)
	if err != nil {
		return Entry{}, false, err
	}
	for i := len(segments) - 1; i >= 0; i-- {
		e, ok, err := c.reader.Lookup(segments[i].Path, key)
		if err != nil {
			return Entry{}, false, err
		}
		if ok {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
