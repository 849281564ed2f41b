package lsm

import (
	"testing"

	"github.com/heysubinoy/pyazkv/pkg/kv"
)

func TestWriteBuffer_FindLatest(t *testing.T) {
	b := NewWriteBuffer()

	b.Append(LiveEntry("a", kv.String("1")))
	b.Append(LiveEntry("b", kv.String("2")))
	b.Append(LiveEntry("a", kv.String("3")))

	e, found := b.FindLatest("a")
	if !found || !e.Value.Equal(kv.String("3")) {
		t.Errorf("expected latest a=3, got %s found=%v", e.Value, found)
	}

	if _, found := b.FindLatest("missing"); found {
		t.Error("expected not found for missing key")
	}

	if b.Len() != 3 {
		t.Errorf("expected 3 entries including duplicates, got %d", b.Len())
	}
}

func TestWriteBuffer_TombstoneIsAHit(t *testing.T) {
	b := NewWriteBuffer()
	b.Append(LiveEntry("k", kv.String("v")))
	b.Append(TombstoneEntry("k"))

	e, found := b.FindLatest("k")
	if !found {
		t.Fatal("expected tombstone to be found")
	}
	if !e.Tombstone {
		t.Error("expected latest entry to be a tombstone")
	}
	if v, ok := e.Resolve(); ok || !v.IsAbsent() {
		t.Errorf("expected tombstone to resolve to absent, got %s ok=%v", v, ok)
	}
}

func TestWriteBuffer_EntriesAndClear(t *testing.T) {
	b := NewWriteBuffer()
	b.Append(LiveEntry("x", kv.Null()))

	entries := b.Entries()
	entries[0].Key = "changed"
	if e, found := b.FindLatest("x"); !found || !e.Value.IsNull() {
		t.Error("Entries should return a copy")
	}

	b.Clear()
	if b.Len() != 0 {
		t.Errorf("expected empty buffer after Clear, got %d", b.Len())
	}
	if _, found := b.FindLatest("x"); found {
		t.Error("expected nothing after Clear")
	}
}
