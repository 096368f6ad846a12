package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"pokernight/engine"
)

func sampleEvent(session string, hand uint32, typ engine.EventType) engine.Event {
	return engine.Event{
		Type:      typ,
		At:        time.Now().UTC(),
		TableID:   "tbl-1",
		SessionID: session,
		HandNum:   hand,
		Seat:      "alice",
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	store.Append(sampleEvent("s1", 0, engine.EventSessionStarted))
	store.Append(sampleEvent("s1", 1, engine.EventHandStarted))
	store.Append(sampleEvent("s1", 1, engine.EventHandEnded))
	store.Append(sampleEvent("s2", 1, engine.EventHandStarted))

	ctx := context.Background()
	all, err := store.ListSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSession: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("session s1 has %d events, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Seq <= all[i-1].Seq {
			t.Fatalf("events out of order: %d then %d", all[i-1].Seq, all[i].Seq)
		}
	}

	hand, err := store.ListHand(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("ListHand: %v", err)
	}
	if len(hand) != 2 {
		t.Fatalf("hand 1 has %d events, want 2", len(hand))
	}

	if _, err := store.ListSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session: %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	store.Append(sampleEvent("s1", 0, engine.EventSessionStarted))
	store.Append(sampleEvent("s1", 1, engine.EventHandStarted))
	ev := sampleEvent("s1", 1, engine.EventPotAwarded)
	ev.Amount = 150
	ev.Winners = []string{"alice", "bob"}
	ev.Split = true
	store.Append(ev)

	ctx := context.Background()
	events, err := store.ListHand(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("ListHand: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("hand 1 has %d events, want 2", len(events))
	}
	got := events[1]
	if got.Type != engine.EventPotAwarded || got.Amount != 150 || !got.Split {
		t.Fatalf("payload did not round-trip: %+v", got)
	}
	if len(got.Winners) != 2 || got.Winners[0] != "alice" {
		t.Fatalf("winners did not round-trip: %v", got.Winners)
	}

	if _, err := store.ListHand(ctx, "s1", 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing hand: %v", err)
	}
}

func TestSQLiteSessionsListing(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	store.Append(sampleEvent("s1", 0, engine.EventSessionStarted))
	store.Append(sampleEvent("s1", 1, engine.EventHandStarted))
	store.Append(sampleEvent("s2", 0, engine.EventSessionStarted))

	infos, err := store.Sessions(context.Background(), 10)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d sessions, want 2", len(infos))
	}
	for _, info := range infos {
		if info.TableID != "tbl-1" || info.Events == 0 {
			t.Fatalf("bad session info: %+v", info)
		}
	}
}

func TestStoreSatisfiesEngineSink(t *testing.T) {
	var _ engine.EventSink = NewMemoryStore()
	var _ engine.EventSink = (*SQLiteStore)(nil)
	var _ engine.EventSink = (*PostgresStore)(nil)
}
