package room

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pokernight/apps/server/internal/wire"
	"pokernight/card"
	"pokernight/engine"
	"pokernight/eventlog"

	"github.com/google/uuid"
)

const (
	tickInterval      = 500 * time.Millisecond
	defaultActTimeout = 30 * time.Second
)

var ErrRoomClosed = errors.New("room closed")

// SendFunc delivers one server message to a connected player. It must not
// block; slow consumers drop frames at the gateway.
type SendFunc func(wire.ServerMessage)

// Room runs one table as an actor: every mutation goes through a single
// goroutine, so the engine sees strictly ordered commands and the turn clock
// cannot race a player action.
type Room struct {
	ID    string
	table *engine.Table
	sink  *eventlog.AsyncSink

	requests chan request
	done     chan struct{}
	stopOnce sync.Once
	onClose  func(id string)

	mu   sync.RWMutex
	subs map[string]SendFunc

	actTimeout   time.Duration
	turnSeat     string
	turnDeadline time.Time
}

type request struct {
	seat string
	msg  wire.ClientMessage
	resp chan error
}

// Params configures a new room. Zero blinds fall back to a 1/2 structure.
type Params struct {
	SmallBlind int64
	BigBlind   int64
	Straddle   bool
	MaxSeats   int
	ActTimeout time.Duration
	Store      eventlog.Store
}

func New(params Params, onClose func(id string)) (*Room, error) {
	if params.SmallBlind == 0 && params.BigBlind == 0 {
		params.SmallBlind, params.BigBlind = 1, 2
	}
	if params.ActTimeout == 0 {
		params.ActTimeout = defaultActTimeout
	}

	tableID := uuid.NewString()
	// The engine emits events under its table lock; writes go through the
	// async sink so a slow database never stalls play.
	var sink engine.EventSink
	var asyncSink *eventlog.AsyncSink
	if params.Store != nil {
		asyncSink = eventlog.NewAsyncSink(params.Store)
		sink = asyncSink
	}
	table, err := engine.New(engine.Config{
		TableID:         tableID,
		SessionID:       uuid.NewString(),
		MaxSeats:        params.MaxSeats,
		SmallBlind:      params.SmallBlind,
		BigBlind:        params.BigBlind,
		StraddleEnabled: params.Straddle,
		Sink:            sink,
	})
	if err != nil {
		return nil, err
	}

	r := &Room{
		ID:         tableID,
		table:      table,
		sink:       asyncSink,
		requests:   make(chan request, 64),
		done:       make(chan struct{}),
		onClose:    onClose,
		subs:       make(map[string]SendFunc),
		actTimeout: params.ActTimeout,
	}
	go r.run()
	log.Printf("[Room] created table=%s blinds=%d/%d straddle=%v", r.ID, params.SmallBlind, params.BigBlind, params.Straddle)
	return r, nil
}

func (r *Room) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-r.requests:
			req.resp <- r.handle(req.seat, req.msg)
		case <-ticker.C:
			r.checkTurnClock()
		case <-r.done:
			return
		}
	}
}

// Submit routes one player message into the actor and waits for the result.
func (r *Room) Submit(seat string, msg wire.ClientMessage) error {
	req := request{seat: seat, msg: msg, resp: make(chan error, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-req.resp:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// Join seats a player (or reconnects an existing seat) and subscribes its
// connection to snapshot pushes.
func (r *Room) Join(seat, name string, send SendFunc) error {
	err := r.Submit(seat, wire.ClientMessage{Type: wire.ClientJoinTable, Name: name})
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.subs[seat] = send
	r.mu.Unlock()
	send(wire.ServerMessage{
		Type:     wire.ServerSnapshot,
		TableID:  r.ID,
		Seat:     seat,
		Snapshot: r.table.SnapshotFor(seat),
	})
	return nil
}

// Leave marks the seat disconnected and drops the subscription. The seat
// itself stays: chips are not forfeited by a dropped connection.
func (r *Room) Leave(seat string) {
	r.mu.Lock()
	delete(r.subs, seat)
	r.mu.Unlock()
	_ = r.Submit(seat, wire.ClientMessage{Type: wire.ClientSitOut})
}

func (r *Room) Snapshot(seat string) *engine.Snapshot {
	return r.table.SnapshotFor(seat)
}

func (r *Room) handle(seat string, msg wire.ClientMessage) error {
	var err error
	switch msg.Type {
	case wire.ClientJoinTable:
		err = r.table.AddSeat(seat, msg.Name)
		if errors.As(err, new(engine.ValidationError)) && strings.Contains(err.Error(), "already exists") {
			err = r.table.SetConnected(seat, true)
		}
	case wire.ClientSetDealer:
		err = r.table.SetDealer(seat, msg.Target)
	case wire.ClientSetBank:
		err = r.table.SetBank(seat, msg.Target)
	case wire.ClientSetStack:
		err = r.table.SetStack(seat, msg.Target, msg.Amount)
	case wire.ClientSetBlinds:
		err = r.table.SetBlinds(seat, msg.SmallBlind, msg.BigBlind, msg.Straddle)
	case wire.ClientStartHand:
		err = r.table.StartHand(seat)
	case wire.ClientAct:
		var action engine.Action
		action, err = parseAction(msg)
		if err == nil {
			err = r.table.Act(seat, action)
		}
	case wire.ClientEndHand:
		err = r.table.EndHand(seat)
	case wire.ClientShowdownChoice:
		var choice engine.Disclosure
		choice, err = parseChoice(msg)
		if err == nil {
			err = r.table.RecordShowdownChoice(seat, choice)
		}
	case wire.ClientReveal:
		err = r.table.Reveal(seat)
	case wire.ClientSitOut:
		err = r.table.SetConnected(seat, false)
	case wire.ClientSitIn:
		err = r.table.SetConnected(seat, true)
	case wire.ClientEndSession:
		err = r.table.EndSession(seat)
		if err == nil {
			r.broadcastMessage(wire.ServerMessage{Type: wire.ServerSessionEnded, TableID: r.ID})
			r.close()
			return nil
		}
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err == nil {
		r.broadcast()
	}
	return err
}

// checkTurnClock folds (or checks, when free) a seat that ran out its clock.
func (r *Room) checkTurnClock() {
	snap := r.table.SnapshotFor("")
	if snap.Turn == "" {
		r.turnSeat = ""
		return
	}
	if snap.Turn != r.turnSeat {
		r.turnSeat = snap.Turn
		r.turnDeadline = time.Now().Add(r.actTimeout)
		return
	}
	if time.Now().Before(r.turnDeadline) {
		return
	}

	action := engine.Action{Type: engine.ActionFold}
	if opts, err := r.table.LegalActions(snap.Turn); err == nil && opts.CanCheck {
		action.Type = engine.ActionCheck
	}
	if err := r.table.Act(snap.Turn, action); err != nil {
		log.Printf("[Room] turn clock action failed: table=%s seat=%s err=%v", r.ID, snap.Turn, err)
		return
	}
	log.Printf("[Room] turn clock: table=%s seat=%s auto-%s", r.ID, snap.Turn, strings.ToLower(action.Type.String()))
	r.turnSeat = ""
	r.broadcast()
}

// broadcast pushes a per-seat redacted snapshot to every subscriber and
// re-arms the turn clock when the turn moved.
func (r *Room) broadcast() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for seat, send := range r.subs {
		send(wire.ServerMessage{
			Type:     wire.ServerSnapshot,
			TableID:  r.ID,
			Seat:     seat,
			Snapshot: r.table.SnapshotFor(seat),
		})
	}

	snap := r.table.SnapshotFor("")
	if snap.Turn != r.turnSeat {
		r.turnSeat = snap.Turn
		r.turnDeadline = time.Now().Add(r.actTimeout)
	}
}

func (r *Room) broadcastMessage(msg wire.ServerMessage) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, send := range r.subs {
		send(msg)
	}
}

func (r *Room) close() {
	r.stopOnce.Do(func() {
		close(r.done)
		if r.sink != nil {
			_ = r.sink.Close()
		}
		if r.onClose != nil {
			r.onClose(r.ID)
		}
		log.Printf("[Room] closed table=%s", r.ID)
	})
}

// Options returns the legal-action projection for a seat, for action prompts.
func (r *Room) Options(seat string) (*engine.ActionOptions, error) {
	return r.table.LegalActions(seat)
}

func parseAction(msg wire.ClientMessage) (engine.Action, error) {
	for typ, name := range engine.ActionTypeDictionary {
		if typ == engine.ActionNone {
			continue
		}
		if strings.EqualFold(name, msg.Action) {
			return engine.Action{Type: typ, To: msg.To}, nil
		}
	}
	return engine.Action{}, fmt.Errorf("unknown action %q", msg.Action)
}

func parseChoice(msg wire.ClientMessage) (engine.Disclosure, error) {
	switch strings.ToUpper(strings.TrimSpace(msg.Choice)) {
	case "MUCK":
		return engine.Disclosure{Kind: engine.DiscloseMuck}, nil
	case "SHOW_ONE":
		c, err := card.Parse(msg.Card)
		if err != nil {
			return engine.Disclosure{}, err
		}
		return engine.Disclosure{Kind: engine.DiscloseOneCard, Card: c}, nil
	case "SHOW_BOTH":
		return engine.Disclosure{Kind: engine.DiscloseBothCards}, nil
	}
	return engine.Disclosure{}, fmt.Errorf("unknown showdown choice %q", msg.Choice)
}
