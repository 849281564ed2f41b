package store

import (
	"time"

	"github.com/heysubinoy/pyazkv/pkg/kv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InstrumentedStore wraps any kv.Store implementation with Prometheus metrics.
// This pattern works for both in-memory and segment-backed stores.
type InstrumentedStore struct {
	store kv.Store

	// operations counts calls by op and status ("ok" or "error").
	operations *prometheus.CounterVec
	// latency measures call duration by op.
	latency *prometheus.HistogramVec
	// checkAndSet counts CheckAndSet outcomes ("swapped" or "mismatch").
	checkAndSet *prometheus.CounterVec
}

// Compile-time checks to ensure InstrumentedStore implements kv.Store and kv.Flusher.
var (
	_ kv.Store   = (*InstrumentedStore)(nil)
	_ kv.Flusher = (*InstrumentedStore)(nil)
)

// NewInstrumentedStore wraps a store and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewInstrumentedStore(store kv.Store, reg prometheus.Registerer) *InstrumentedStore {
	factory := promauto.With(reg)
	return &InstrumentedStore{
		store: store,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pyazkv_operations_total",
				Help: "Total number of store operations",
			},
			[]string{"op", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "pyazkv_operation_duration_seconds",
				Help: "Duration of store operations in seconds",
				// From buffer hits up to scans over many segments
				Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),
		checkAndSet: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pyazkv_check_and_set_total",
				Help: "CheckAndSet results by outcome",
			},
			[]string{"result"},
		),
	}
}

// Unwrap returns the wrapped store.
func (s *InstrumentedStore) Unwrap() kv.Store {
	return s.store
}

// Init delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Init() error {
	start := time.Now()
	err := s.store.Init()
	s.observe("init", start, err)
	return err
}

// Get delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Get(key string) (kv.Value, bool, error) {
	start := time.Now()
	value, found, err := s.store.Get(key)
	s.observe("get", start, err)
	return value, found, err
}

// Set delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Set(key string, value kv.Value) error {
	start := time.Now()
	err := s.store.Set(key, value)
	s.observe("set", start, err)
	return err
}

// Delete delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.store.Delete(key)
	s.observe("delete", start, err)
	return err
}

// CheckAndSet delegates to the wrapped store and records timing and outcome.
func (s *InstrumentedStore) CheckAndSet(key string, expected, newValue kv.Value) (bool, error) {
	start := time.Now()
	swapped, err := s.store.CheckAndSet(key, expected, newValue)
	s.observe("check_and_set", start, err)

	if swapped {
		s.checkAndSet.WithLabelValues("swapped").Inc()
	} else if err == nil {
		s.checkAndSet.WithLabelValues("mismatch").Inc()
	}
	return swapped, err
}

// Flush forwards to the wrapped store if it buffers writes.
func (s *InstrumentedStore) Flush() error {
	f, ok := s.store.(kv.Flusher)
	if !ok {
		return nil
	}
	start := time.Now()
	err := f.Flush()
	s.observe("flush", start, err)
	return err
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.operations.WithLabelValues(op, status).Inc()
	s.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
