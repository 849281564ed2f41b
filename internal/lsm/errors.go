package lsm

import "errors"

var (
	// ErrCorruptSegment is returned when a segment line cannot be decoded or
	// the segment's keys are not strictly ascending.
	ErrCorruptSegment = errors.New("corrupted segment")

	// ErrSegmentExists is returned when a flush would overwrite an existing
	// segment file.
	ErrSegmentExists = errors.New("segment already exists")
)
