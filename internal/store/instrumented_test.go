package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/heysubinoy/pyazkv/pkg/kv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentedStore_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewInstrumentedStore(NewMemStore(), reg)

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	mustSet(t, s, "a", kv.String("1"))
	mustSet(t, s, "b", kv.String("2"))
	if _, _, err := s.Get("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("c", kv.Absent()); !errors.Is(err, kv.ErrAbsentValue) {
		t.Fatalf("expected ErrAbsentValue, got %v", err)
	}

	tests := []struct {
		op, status string
		want       float64
	}{
		{"init", "ok", 1},
		{"set", "ok", 2},
		{"set", "error", 1},
		{"get", "ok", 1},
		{"delete", "ok", 1},
	}
	for _, tc := range tests {
		got := testutil.ToFloat64(s.operations.WithLabelValues(tc.op, tc.status))
		if got != tc.want {
			t.Errorf("%s/%s: expected %v, got %v", tc.op, tc.status, tc.want, got)
		}
	}

	if n := testutil.CollectAndCount(s.latency); n != 4 {
		t.Errorf("expected latency series for 4 ops, got %d", n)
	}
}

func TestInstrumentedStore_CheckAndSetOutcomes(t *testing.T) {
	s := NewInstrumentedStore(NewMemStore(), prometheus.NewRegistry())

	if ok, _ := s.CheckAndSet("k", kv.Absent(), kv.Number(1)); !ok {
		t.Fatal("expected swap")
	}
	if ok, _ := s.CheckAndSet("k", kv.Absent(), kv.Number(2)); ok {
		t.Fatal("expected mismatch")
	}
	if ok, _ := s.CheckAndSet("k", kv.Number(1), kv.Number(2)); !ok {
		t.Fatal("expected swap")
	}

	if got := testutil.ToFloat64(s.checkAndSet.WithLabelValues("swapped")); got != 2 {
		t.Errorf("expected 2 swaps, got %v", got)
	}
	if got := testutil.ToFloat64(s.checkAndSet.WithLabelValues("mismatch")); got != 1 {
		t.Errorf("expected 1 mismatch, got %v", got)
	}
}

func TestInstrumentedStore_Flush(t *testing.T) {
	inner, dir := newLSM(t, 100)
	s := NewInstrumentedStore(inner, prometheus.NewRegistry())

	mustSet(t, s, "k", kv.String("v"))
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if n := len(segments(t, dir)); n != 1 {
		t.Errorf("expected flush to reach the wrapped store, got %d segments", n)
	}
	if got := testutil.ToFloat64(s.operations.WithLabelValues("flush", "ok")); got != 1 {
		t.Errorf("expected 1 flush, got %v", got)
	}

	// A store without a buffer has nothing to flush.
	mem := NewInstrumentedStore(NewMemStore(), nil)
	if err := mem.Flush(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if mem.Unwrap() == nil {
		t.Error("expected wrapped store")
	}
}

func TestInstrumentedStore_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewInstrumentedStore(NewMemStore(), reg)
	mustSet(t, s, "a", kv.String("1"))

	expected := `
# HELP pyazkv_operations_total Total number of store operations
# TYPE pyazkv_operations_total counter
pyazkv_operations_total{op="set",status="ok"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "pyazkv_operations_total"); err != nil {
		t.Error(err)
	}
}
