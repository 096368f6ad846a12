package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"pokernight/card"
)

const noSeat = -1

// Table is the authoritative state of one poker table. All operations take
// the table lock, validate fully, and either mutate and return nil or leave
// the state untouched and return a rejection. A Table is a freely
// constructible value: the engine keeps no package-level state.
type Table struct {
	mu sync.Mutex

	id        string
	sessionID string
	createdAt time.Time

	cfg  Config
	rng  *rand.Rand
	sink EventSink

	bankID string
	seats  []*Seat

	street     Street
	handNum    uint32
	board      card.CardList
	deck       card.CardList
	pots       []Pot
	positions  *HandPositions
	lastButton int

	turnIndex int
	streetBet int64
	minRaise  int64
	owed      map[string]bool // seat ids still owed an action this round

	bestHand  string
	actionLog []ActionRecord
	ended     bool
}

// New creates a table with no seats. The first seat added becomes dealer and
// bank.
func New(cfg Config) (*Table, error) {
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 9
	}
	if cfg.ActionLogCap == 0 {
		cfg.ActionLogCap = defaultActionLogCap
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := &Table{
		id:         cfg.TableID,
		sessionID:  cfg.SessionID,
		createdAt:  time.Now().UTC(),
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		sink:       cfg.Sink,
		street:     StreetDone,
		lastButton: noSeat,
		turnIndex:  noSeat,
	}
	t.emit(Event{Type: EventSessionStarted, SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind, Straddle: cfg.StraddleEnabled})
	return t, nil
}

func (t *Table) ID() string        { return t.id }
func (t *Table) SessionID() string { return t.sessionID }

// AddSeat seats a new player. The first seat becomes dealer and bank. A seat
// added mid-hand is not dealt in until the next hand.
func (t *Table) AddSeat(seatID, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if seatID == "" {
		return ErrValidation("empty seat id")
	}
	if s, _ := t.seatByID(seatID); s != nil {
		return ErrValidation(fmt.Sprintf("seat %s already exists", seatID))
	}
	if len(t.seats) >= t.cfg.MaxSeats {
		return ErrResource(fmt.Sprintf("table is full (%d seats)", t.cfg.MaxSeats))
	}

	seat := &Seat{ID: seatID, Name: name, Connected: true}
	first := len(t.seats) == 0
	if first {
		seat.Dealer = true
		t.bankID = seatID
	}
	t.seats = append(t.seats, seat)

	t.emit(Event{Type: EventSeatAdded, Seat: seatID, Detail: name})
	if first {
		t.emit(Event{Type: EventDealerAssigned, Seat: seatID})
		t.emit(Event{Type: EventBankAssigned, Seat: seatID})
	}
	return nil
}

// SetDealer reassigns the dealer role. Dealer only.
func (t *Table) SetDealer(callerID, targetID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if !t.isDealer(callerID) {
		return ErrNotDealer
	}
	target, _ := t.seatByID(targetID)
	if target == nil {
		return ErrNoSuchSeat
	}
	for _, s := range t.seats {
		s.Dealer = s == target
	}
	t.emit(Event{Type: EventDealerAssigned, Seat: callerID, Target: targetID})
	return nil
}

// SetBank reassigns the chip custodian. Bank only.
func (t *Table) SetBank(callerID, targetID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if callerID != t.bankID {
		return ErrNotBank
	}
	target, _ := t.seatByID(targetID)
	if target == nil {
		return ErrNoSuchSeat
	}
	t.bankID = targetID
	t.emit(Event{Type: EventBankAssigned, Seat: callerID, Target: targetID})
	return nil
}

// SetStack sets a seat's chip count. Bank only; rejected for a seat that is
// dealt into a live hand (chips in play cannot be restated mid-hand).
func (t *Table) SetStack(callerID, targetID string, amount int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if callerID != t.bankID {
		return ErrNotBank
	}
	if amount < 0 {
		return ErrValidation(fmt.Sprintf("stack must be >= 0, got %d", amount))
	}
	target, _ := t.seatByID(targetID)
	if target == nil {
		return ErrNoSuchSeat
	}
	if target.InHand && t.street != StreetDone {
		return ErrHandLive
	}
	target.Stack = amount
	t.emit(Event{Type: EventStackSet, Seat: callerID, Target: targetID, Amount: amount})
	return nil
}

// SetBlinds updates the betting configuration for future hands. Bank only.
func (t *Table) SetBlinds(callerID string, smallBlind, bigBlind int64, straddleEnabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if callerID != t.bankID {
		return ErrNotBank
	}
	if smallBlind <= 0 || bigBlind <= 0 || smallBlind >= bigBlind {
		return ErrValidation(fmt.Sprintf("invalid blinds: sb=%d bb=%d", smallBlind, bigBlind))
	}
	t.cfg.SmallBlind = smallBlind
	t.cfg.BigBlind = bigBlind
	t.cfg.StraddleEnabled = straddleEnabled
	t.emit(Event{Type: EventBlindsSet, Seat: callerID, SmallBlind: smallBlind, BigBlind: bigBlind, Straddle: straddleEnabled})
	return nil
}

// SetConnected flags a seat's connection state. A lost connection does not
// remove the seat; it only excludes it from future dealing. A seat already
// dealt in keeps its turn and is resolved by the caller (e.g. timeout fold).
func (t *Table) SetConnected(seatID string, connected bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	seat, _ := t.seatByID(seatID)
	if seat == nil {
		return ErrNoSuchSeat
	}
	if seat.Connected == connected {
		return nil
	}
	seat.Connected = connected
	typ := EventConnLost
	if connected {
		typ = EventConnRestored
	}
	t.emit(Event{Type: typ, Seat: seatID})
	return nil
}

// RecordShowdownChoice stores a seat's disclosure choice. Only legal for a
// non-dealer, non-bank seat while the hand is at showdown. The choice is a
// display overlay; it never moves chips.
func (t *Table) RecordShowdownChoice(callerID string, choice Disclosure) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	seat, _ := t.seatByID(callerID)
	if seat == nil {
		return ErrNoSuchSeat
	}
	if t.isDealer(callerID) || callerID == t.bankID {
		return ErrValidation("dealer and bank seats do not record showdown choices")
	}
	if t.street != StreetShowdown {
		return ErrWrongStreet
	}
	if !seat.InHand || len(seat.holeCards) == 0 {
		return ErrValidation("seat was not dealt this hand")
	}
	if seat.revealed {
		return ErrAlreadyRevealed
	}
	if seat.disclosure != nil {
		return ErrValidation("showdown choice already recorded")
	}
	if choice.Kind == DiscloseOneCard && !containsCard(seat.holeCards, choice.Card) {
		return ErrValidation("shown card is not one of the seat's hole cards")
	}

	seat.disclosure = &choice
	ev := Event{Type: EventShowdownChoice, Seat: callerID, Detail: choice.Kind.String()}
	switch choice.Kind {
	case DiscloseOneCard:
		ev.Cards = []string{choice.Card.Code()}
	case DiscloseBothCards:
		ev.Cards = card.Codes(seat.holeCards)
	}
	t.emit(ev)
	return nil
}

// Reveal voluntarily shows both hole cards to the table, at any point after
// the cards are dealt. A second call in the same hand is rejected.
func (t *Table) Reveal(callerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	seat, _ := t.seatByID(callerID)
	if seat == nil {
		return ErrNoSuchSeat
	}
	if !seat.InHand || len(seat.holeCards) == 0 {
		return ErrValidation("seat has no cards to reveal")
	}
	if seat.revealed {
		return ErrAlreadyRevealed
	}
	seat.revealed = true
	t.emit(Event{Type: EventCardsRevealed, Seat: callerID, Cards: card.Codes(seat.holeCards)})
	return nil
}

// EndSession terminates the table. Dealer only. A live hand is voided with
// full refunds first.
func (t *Table) EndSession(callerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if !t.isDealer(callerID) {
		return ErrNotDealer
	}
	if t.street != StreetDone {
		t.voidHandLocked(callerID)
	}
	t.ended = true
	t.emit(Event{Type: EventSessionEnded, Seat: callerID})
	return nil
}

// --- internal helpers (lock held) ---

func (t *Table) seatByID(id string) (*Seat, int) {
	for i, s := range t.seats {
		if s.ID == id {
			return s, i
		}
	}
	return nil, noSeat
}

func (t *Table) isDealer(id string) bool {
	s, _ := t.seatByID(id)
	return s != nil && s.Dealer
}

// nextIndex walks the seat ring once starting after from, returning the
// first index satisfying pred, or noSeat.
func (t *Table) nextIndex(from int, pred func(*Seat) bool) int {
	n := len(t.seats)
	if n == 0 {
		return noSeat
	}
	if from < 0 {
		from = n - 1
	}
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if pred(t.seats[idx]) {
			return idx
		}
	}
	return noSeat
}

func (t *Table) capableCount() int {
	n := 0
	for _, s := range t.seats {
		if s.capable() {
			n++
		}
	}
	return n
}

func (t *Table) activeCount() int {
	n := 0
	for _, s := range t.seats {
		if s.active() {
			n++
		}
	}
	return n
}

func (t *Table) rebuildOwed() {
	t.owed = make(map[string]bool)
	for _, s := range t.seats {
		if s.capable() {
			t.owed[s.ID] = true
		}
	}
}

func (t *Table) logAction(seatID string, action ActionType, amount int64) {
	rec := ActionRecord{
		Seat:   seatID,
		Action: action.String(),
		Amount: amount,
		Street: t.street.String(),
		At:     time.Now().UTC(),
	}
	t.actionLog = append([]ActionRecord{rec}, t.actionLog...)
	if len(t.actionLog) > t.cfg.ActionLogCap {
		t.actionLog = t.actionLog[:t.cfg.ActionLogCap]
	}
}

func containsCard(cards []card.Card, c card.Card) bool {
	for _, cc := range cards {
		if cc == c {
			return true
		}
	}
	return false
}
