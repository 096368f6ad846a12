package eventlog

import (
	"context"
	"testing"

	"pokernight/engine"
)

func TestAsyncSinkFlushesOnClose(t *testing.T) {
	store := NewMemoryStore()
	sink := NewAsyncSink(store)

	for i := uint32(1); i <= 50; i++ {
		sink.Append(sampleEvent("s-async", i, engine.EventActionTaken))
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events, err := store.ListSession(context.Background(), "s-async")
	if err != nil {
		t.Fatalf("ListSession: %v", err)
	}
	if len(events) != 50 {
		t.Fatalf("flushed %d events, want 50", len(events))
	}
	for i, e := range events {
		if e.HandNum != uint32(i+1) {
			t.Fatalf("event %d out of order: hand %d", i, e.HandNum)
		}
	}

	// Close is idempotent.
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// stallStore blocks writes behind a gate so the sink buffer can fill up.
type stallStore struct {
	*MemoryStore
	gate <-chan struct{}
}

func (s *stallStore) Append(e engine.Event) {
	<-s.gate
	s.MemoryStore.Append(e)
}

func TestAsyncSinkDropsInsteadOfBlocking(t *testing.T) {
	gate := make(chan struct{})
	store := &stallStore{MemoryStore: NewMemoryStore(), gate: gate}
	sink := NewAsyncSink(store)

	// With the store stalled, every Append must return immediately even once
	// the buffer is over capacity.
	overflow := asyncBufferSize + 10
	for i := uint32(1); i <= uint32(overflow); i++ {
		sink.Append(sampleEvent("s-stall", i, engine.EventActionTaken))
	}

	close(gate)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events, err := store.ListSession(context.Background(), "s-stall")
	if err != nil {
		t.Fatalf("ListSession: %v", err)
	}
	// The writer may have pulled one event off the buffer before stalling.
	if len(events) < asyncBufferSize || len(events) > asyncBufferSize+1 {
		t.Fatalf("delivered %d events, want about the buffer size (%d)", len(events), asyncBufferSize)
	}
	if len(events) >= overflow {
		t.Fatalf("expected overflow events to be dropped, delivered %d of %d", len(events), overflow)
	}
}

func TestAsyncSinkSatisfiesEngineSink(t *testing.T) {
	var _ engine.EventSink = (*AsyncSink)(nil)
}
