package store

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/heysubinoy/pyazkv/internal/lsm"
	"github.com/heysubinoy/pyazkv/pkg/kv"
	"go.uber.org/zap"
)

// DefaultFlushThreshold is the buffer length that triggers a flush when no
// threshold is configured.
const DefaultFlushThreshold = 1000

// ErrNotInitialized is returned when a flush is needed before Init was called.
var ErrNotInitialized = errors.New("store is not initialized")

// Option configures an LSMStore.
type Option func(*LSMStore)

// WithLogger sets the logger used for flush and startup events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *LSMStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec replaces the segment record codec.
func WithCodec(codec lsm.Codec) Option {
	return func(s *LSMStore) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// LSMStore is a kv.Store backed by an in-memory write buffer and immutable
// sorted segment files in a single directory.
//
// Every operation holds the store mutex for its whole duration, so
// CheckAndSet reads and writes without any other write in between. Only one
// LSMStore may write to a directory at a time.
type LSMStore struct {
	mu          sync.RWMutex
	dir         string
	threshold   int
	codec       lsm.Codec
	logger      *zap.Logger
	buffer      *lsm.WriteBuffer
	writer      *lsm.SegmentWriter
	lookup      *lsm.LookupCoordinator
	initialized bool
	flushes     uint64
}

// Compile-time checks to ensure LSMStore implements kv.Store and kv.Flusher.
var (
	_ kv.Store   = (*LSMStore)(nil)
	_ kv.Flusher = (*LSMStore)(nil)
)

// NewLSMStore creates a store over dir that flushes once threshold entries
// are buffered. A threshold below 1 falls back to DefaultFlushThreshold.
// Call Init before writing.
func NewLSMStore(dir string, threshold int, opts ...Option) *LSMStore {
	if threshold < 1 {
		threshold = DefaultFlushThreshold
	}
	s := &LSMStore{
		dir:       dir,
		threshold: threshold,
		codec:     lsm.JSONCodec{},
		logger:    zap.NewNop(),
		buffer:    lsm.NewWriteBuffer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = lsm.NewSegmentWriter(dir, s.codec, s.logger)
	s.lookup = lsm.NewLookupCoordinator(s.buffer, dir, lsm.NewSegmentReader(s.codec))
	return s
}

// Init creates the data directory if needed. The first call also reads the
// existing segments to pick the next segment index.
func (s *LSMStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if s.initialized {
		return nil
	}
	if err := s.writer.Seed(); err != nil {
		return fmt.Errorf("failed to scan segments: %w", err)
	}
	s.initialized = true

	s.logger.Info("store initialized",
		zap.String("dir", s.dir),
		zap.Uint64("next_segment", s.writer.NextIndex()),
		zap.Int("flush_threshold", s.threshold))
	return nil
}

// Get returns the newest visible value for key.
func (s *LSMStore) Get(key string) (kv.Value, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key)
}

// Set buffers a write and flushes if the buffer is full. If the flush fails
// the write stays buffered and the error is returned.
func (s *LSMStore) Set(key string, value kv.Value) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	if value.IsAbsent() {
		return kv.ErrAbsentValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.append(lsm.LiveEntry(key, value))
}

// Delete buffers a tombstone for key and flushes if the buffer is full.
func (s *LSMStore) Delete(key string) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.append(lsm.TombstoneEntry(key))
}

// CheckAndSet sets key to newValue only if its current value equals expected.
// If the write is applied but the flush it triggers fails, it returns true
// together with the error.
func (s *LSMStore) CheckAndSet(key string, expected, newValue kv.Value) (bool, error) {
	if err := kv.ValidateKey(key); err != nil {
		return false, err
	}
	if newValue.IsAbsent() {
		return false, kv.ErrAbsentValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.get(key)
	if err != nil {
		return false, err
	}
	if !current.Equal(expected) {
		return false, nil
	}
	if err := s.append(lsm.LiveEntry(key, newValue)); err != nil {
		return true, err
	}
	return true, nil
}

// Flush writes the buffer out as a new segment. It does nothing if the
// buffer is empty.
func (s *LSMStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flushLocked()
}

// Stats returns a snapshot of the store's state.
func (s *LSMStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Dir:         s.dir,
		BufferLen:   s.buffer.Len(),
		Threshold:   s.threshold,
		NextSegment: s.writer.NextIndex(),
		Flushes:     s.flushes,
	}
}

// Stats is a point-in-time view of an LSMStore.
type Stats struct {
	Dir         string
	BufferLen   int
	Threshold   int
	NextSegment uint64
	Flushes     uint64
}

func (s *LSMStore) get(key string) (kv.Value, bool, error) {
	e, found, err := s.lookup.Get(key)
	if err != nil {
		return kv.Absent(), false, err
	}
	if !found {
		return kv.Absent(), false, nil
	}
	v, ok := e.Resolve()
	return v, ok, nil
}

func (s *LSMStore) append(e lsm.Entry) error {
	s.buffer.Append(e)
	if s.buffer.Len() >= s.threshold {
		return s.flushLocked()
	}
	return nil
}

func (s *LSMStore) flushLocked() error {
	if s.buffer.Len() == 0 {
		return nil
	}
	if !s.initialized {
		return ErrNotInitialized
	}

	_, created, err := s.writer.Flush(s.buffer.Entries())
	if err != nil {
		s.logger.Error("flush failed",
			zap.Int("buffered", s.buffer.Len()),
			zap.Error(err))
		return fmt.Errorf("flush failed: %w", err)
	}
	if created {
		s.flushes++
	}
	s.buffer.Clear()
	return nil
}
