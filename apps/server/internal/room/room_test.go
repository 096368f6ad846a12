package room

import (
	"sync"
	"testing"
	"time"

	"pokernight/apps/server/internal/wire"
	"pokernight/eventlog"
)

// collector is a SendFunc target that records every pushed message.
type collector struct {
	mu   sync.Mutex
	msgs []wire.ServerMessage
}

func (c *collector) send(msg wire.ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) lastSnapshot() *wire.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Type == wire.ServerSnapshot {
			return &c.msgs[i]
		}
	}
	return nil
}

func newTestRoom(t *testing.T, actTimeout time.Duration) (*Room, map[string]*collector) {
	t.Helper()

	r, err := New(Params{
		SmallBlind: 5,
		BigBlind:   10,
		ActTimeout: actTimeout,
		Store:      eventlog.NewMemoryStore(),
	}, nil)
	if err != nil {
		t.Fatalf("New room err: %v", err)
	}
	t.Cleanup(r.close)

	subs := make(map[string]*collector)
	for _, seat := range []string{"p1", "p2", "p3"} {
		c := &collector{}
		subs[seat] = c
		if err := r.Join(seat, seat, c.send); err != nil {
			t.Fatalf("Join %s err: %v", seat, err)
		}
	}
	for _, seat := range []string{"p1", "p2", "p3"} {
		err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientSetStack, Target: seat, Amount: 1000})
		if err != nil {
			t.Fatalf("set-stack %s err: %v", seat, err)
		}
	}
	return r, subs
}

func TestRoomStartHandRedactsHoleCards(t *testing.T) {
	r, subs := newTestRoom(t, time.Minute)

	if err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientStartHand}); err != nil {
		t.Fatalf("start-hand err: %v", err)
	}

	msg := subs["p2"].lastSnapshot()
	if msg == nil {
		t.Fatalf("expected snapshot pushed to p2")
	}
	snap := msg.Snapshot
	if snap.HandNum != 1 {
		t.Fatalf("expected hand 1, got %d", snap.HandNum)
	}
	if snap.Turn == "" {
		t.Fatalf("expected a seat to act preflop")
	}
	for _, sv := range snap.Seats {
		switch sv.ID {
		case "p2":
			if len(sv.Cards) != 2 {
				t.Fatalf("expected p2 to see own hole cards, got %v", sv.Cards)
			}
		default:
			if len(sv.Cards) != 0 {
				t.Fatalf("expected %s hole cards hidden from p2, got %v", sv.ID, sv.Cards)
			}
		}
	}
}

func TestRoomRejectsActionOutOfTurn(t *testing.T) {
	r, _ := newTestRoom(t, time.Minute)

	if err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientStartHand}); err != nil {
		t.Fatalf("start-hand err: %v", err)
	}
	snap := r.Snapshot("")
	var notTurn string
	for _, sv := range snap.Seats {
		if sv.ID != snap.Turn {
			notTurn = sv.ID
			break
		}
	}
	err := r.Submit(notTurn, wire.ClientMessage{Type: wire.ClientAct, Action: "FOLD"})
	if err == nil {
		t.Fatalf("expected out-of-turn fold to be rejected")
	}
}

func TestRoomTurnClockForcesAction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping turn clock test in short mode")
	}

	r, _ := newTestRoom(t, 200*time.Millisecond)
	if err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientStartHand}); err != nil {
		t.Fatalf("start-hand err: %v", err)
	}

	first := r.Snapshot("").Turn
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if turn := r.Snapshot("").Turn; turn != first {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("expected turn clock to act for %s", first)
}

func TestRoomEndSessionClosesRoom(t *testing.T) {
	closed := make(chan string, 1)
	r, err := New(Params{Store: eventlog.NewMemoryStore()}, func(id string) { closed <- id })
	if err != nil {
		t.Fatalf("New room err: %v", err)
	}
	c := &collector{}
	if err := r.Join("p1", "p1", c.send); err != nil {
		t.Fatalf("Join err: %v", err)
	}

	// The room tears itself down while this request is in flight, so the
	// submit may observe the closed channel instead of the nil result.
	if err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientEndSession}); err != nil && err != ErrRoomClosed {
		t.Fatalf("end-session err: %v", err)
	}

	select {
	case id := <-closed:
		if id != r.ID {
			t.Fatalf("expected close callback for %s, got %s", r.ID, id)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected close callback")
	}

	if err := r.Submit("p1", wire.ClientMessage{Type: wire.ClientStartHand}); err != ErrRoomClosed {
		t.Fatalf("expected ErrRoomClosed after end-session, got %v", err)
	}
}
