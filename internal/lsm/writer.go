package lsm

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

// SegmentWriter turns buffered entries into new segment files.
//
// The next index is kept in memory. It is read from the directory once by
// Seed and then advanced after every successful flush. A SegmentWriter must
// only be used by one goroutine at a time.
type SegmentWriter struct {
	dir    string
	codec  Codec
	logger *zap.Logger
	next   uint64
	seeded bool

	writeFile func(name string, data []byte, perm fs.FileMode) error
}

// NewSegmentWriter creates a writer for dir. A nil logger disables logging.
func NewSegmentWriter(dir string, codec Codec, logger *zap.Logger) *SegmentWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SegmentWriter{
		dir:       dir,
		codec:     codec,
		logger:    logger,
		writeFile: os.WriteFile,
	}
}

// Seed sets the next index to one past the highest segment in the directory.
func (w *SegmentWriter) Seed() error {
	highest, err := MaxIndex(w.dir)
	if err != nil {
		return err
	}
	w.next = highest + 1
	w.seeded = true
	return nil
}

// NextIndex returns the index the next flush will use, or 0 before Seed.
func (w *SegmentWriter) NextIndex() uint64 {
	return w.next
}

// Flush writes entries as a new segment and reports whether a file was
// created. Only the last entry for each key is kept and records are sorted
// by key. An empty input creates nothing.
//
// A segment name is never written twice: if the file already exists the
// flush fails with ErrSegmentExists and the writer reseeds from disk.
func (w *SegmentWriter) Flush(entries []Entry) (SegmentFile, bool, error) {
	if len(entries) == 0 {
		return SegmentFile{}, false, nil
	}
	if !w.seeded {
		if err := w.Seed(); err != nil {
			return SegmentFile{}, false, err
		}
	}

	var latest btree.Map[string, Entry]
	for _, e := range entries {
		latest.Set(e.Key, e)
	}

	lines := make([][]byte, 0, latest.Len())
	var encodeErr error
	latest.Scan(func(key string, e Entry) bool {
		line, err := w.codec.Encode(e)
		if err != nil {
			encodeErr = fmt.Errorf("failed to encode key %q: %w", key, err)
			return false
		}
		lines = append(lines, line)
		return true
	})
	if encodeErr != nil {
		return SegmentFile{}, false, encodeErr
	}

	seg := SegmentFile{
		Index: w.next,
		Path:  filepath.Join(w.dir, SegmentName(w.next)),
	}
	if err := w.publish(seg.Path, bytes.Join(lines, []byte("\n"))); err != nil {
		if errors.Is(err, ErrSegmentExists) {
			w.logger.Warn("segment index already taken, reseeding",
				zap.String("file", seg.Path))
			if seedErr := w.Seed(); seedErr != nil {
				w.logger.Warn("reseed failed", zap.Error(seedErr))
			}
		}
		return SegmentFile{}, false, err
	}
	w.next++

	w.logger.Info("flushed segment",
		zap.String("file", filepath.Base(seg.Path)),
		zap.Uint64("index", seg.Index),
		zap.Int("entries", len(lines)),
		zap.Int("buffered", len(entries)))
	return seg, true, nil
}

// publish writes data to a temp file and hard links it into place, so the
// segment appears complete or not at all and an existing file is never
// replaced.
func (w *SegmentWriter) publish(path string, data []byte) error {
	tmp := filepath.Join(w.dir, ".tmp-"+uuid.NewString())
	defer os.Remove(tmp)
	if err := w.writeFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write segment: %w", err)
	}

	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSegmentExists, filepath.Base(path))
		}
		return fmt.Errorf("failed to publish segment: %w", err)
	}
	return nil
}
