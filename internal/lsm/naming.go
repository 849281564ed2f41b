package lsm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

const (
	segmentNamePrefix = "sorted_string_table_"
	segmentNameExt    = ".json"
)

// segmentFilePattern matches segment files in a data directory.
var segmentFilePattern = regexp.MustCompile(`^sorted_string_table_(\d{4,})\.json$`)

// SegmentFile identifies one segment on disk.
type SegmentFile struct {
	Index uint64
	Path  string
}

// SegmentName returns the file name for a segment index, zero padded to
// four digits.
func SegmentName(index uint64) string {
	return fmt.Sprintf("%s%04d%s", segmentNamePrefix, index, segmentNameExt)
}

// ParseSegmentName extracts the index from a segment file name.
func ParseSegmentName(name string) (uint64, bool) {
	m := segmentFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	index, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return index, true
}

// ListSegments returns the segments in dir ordered by ascending index.
// A directory that does not exist holds no segments.
func ListSegments(dir string) ([]SegmentFile, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	var segments []SegmentFile
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		index, ok := ParseSegmentName(de.Name())
		if !ok {
			continue
		}
		segments = append(segments, SegmentFile{
			Index: index,
			Path:  filepath.Join(dir, de.Name()),
		})
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Index < segments[j].Index
	})
	return segments, nil
}

// MaxIndex returns the highest segment index in dir, or 0 if there is none.
func MaxIndex(dir string) (uint64, error) {
	segments, err := ListSegments(dir)
	if err != nil {
		return 0, err
	}
	if len(segments) == 0 {
		return 0, nil
	}
	return segments[len(segments)-1].Index, nil
}
