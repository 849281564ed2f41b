// Package lsm implements the pieces of a small log-structured key-value engine.
//
// Writes are appended to an in-memory WriteBuffer. When the owning store
// decides the buffer is full, a SegmentWriter deduplicates and sorts it and
// writes it out as an immutable segment file. Reads go through a
// LookupCoordinator that checks the buffer first and then every segment,
// newest index first, stopping at the first record for the key. A tombstone
// record stops the search just like a live one.
//
// Layout of a data directory:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ sorted_string_table_0001.json   oldest                   │
//	│ sorted_string_table_0002.json                            │
//	│ ...                                                      │
//	│ sorted_string_table_NNNN.json   newest                   │
//	├──────────────────────────────────────────────────────────┤
//	│ Read path:  WriteBuffer → NNNN → ... → 0002 → 0001       │
//	└──────────────────────────────────────────────────────────┘
//
// Each segment holds one record per line, ["key", value, tombstone], sorted
// by key with no duplicates. Segments are never rewritten or removed.
package lsm
