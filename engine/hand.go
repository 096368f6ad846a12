package engine

import (
	"fmt"

	"pokernight/card"
)

// StartHand begins a new hand. Dealer only; the previous hand must be fully
// closed. Every connected seat with chips is dealt in; the button moves to
// the next dealt-in seat clockwise from its previous position.
func (t *Table) StartHand(callerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if !t.isDealer(callerID) {
		return ErrNotDealer
	}
	if t.street != StreetDone {
		return ErrHandLive
	}

	for _, s := range t.seats {
		s.resetForNewHand()
	}
	dealt := 0
	for _, s := range t.seats {
		if s.Connected && s.Stack > 0 {
			s.InHand = true
			dealt++
		}
	}
	if dealt < 2 {
		return ErrResource(fmt.Sprintf("need at least 2 seats with chips, have %d", dealt))
	}

	inHand := func(s *Seat) bool { return s.InHand }
	button := t.nextIndex(t.lastButton, inHand)
	if t.lastButton == noSeat {
		// First hand: the dealer's own seat takes the button when dealt in.
		if d, di := t.dealerSeat(); d != nil && d.InHand {
			button = di
		}
	}
	t.lastButton = button

	pos := &HandPositions{Button: button, Straddle: noSeat}
	if dealt == 2 {
		// Heads up the button posts the small blind and acts first preflop.
		pos.SmallBlind = button
		pos.BigBlind = t.nextIndex(button, inHand)
	} else {
		pos.SmallBlind = t.nextIndex(button, inHand)
		pos.BigBlind = t.nextIndex(pos.SmallBlind, inHand)
	}

	t.handNum++
	t.street = StreetPreflop
	t.board = nil
	t.pots = nil
	t.positions = pos
	t.bestHand = ""
	t.deck.Init(card.Shuffled(card.NewDeck(), t.rng))

	t.emit(Event{
		Type:       EventHandStarted,
		Seat:       t.seats[button].ID,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		Straddle:   t.cfg.StraddleEnabled,
	})

	// Two passes around the ring, starting left of the button.
	for pass := 0; pass < 2; pass++ {
		idx := button
		for i := 0; i < dealt; i++ {
			idx = t.nextIndex(idx, inHand)
			t.seats[idx].holeCards.Add(t.deck.PopCard())
		}
	}
	for _, s := range t.seats {
		if s.InHand {
			if hv := EvaluateBest(s.holeCards); hv != nil {
				s.bestLabel = hv.Label
			}
		}
	}

	sb := t.seats[pos.SmallBlind]
	bb := t.seats[pos.BigBlind]
	t.emit(Event{Type: EventBlindPosted, Seat: sb.ID, Amount: sb.post(t.cfg.SmallBlind)})
	t.emit(Event{Type: EventBlindPosted, Seat: bb.ID, Amount: bb.post(t.cfg.BigBlind)})

	// The betting level is the intended blind, not the posted amount: a short
	// all-in blind does not lower what others must call.
	level := t.cfg.BigBlind
	lastForced := pos.BigBlind
	if t.cfg.StraddleEnabled && dealt > 2 {
		if si := t.nextIndex(pos.BigBlind, func(s *Seat) bool { return s.capable() }); si != noSeat {
			st := t.seats[si]
			t.emit(Event{Type: EventStraddlePosted, Seat: st.ID, Amount: st.post(2 * t.cfg.BigBlind)})
			pos.Straddle = si
			level = 2 * t.cfg.BigBlind
			lastForced = si
		}
	}
	t.streetBet = level
	t.minRaise = level

	t.rebuildOwed()
	t.pots = buildPots(t.seats)
	t.turnIndex = t.nextIndex(lastForced, func(s *Seat) bool { return s.capable() && t.owed[s.ID] })
	if t.turnIndex == noSeat || t.roundComplete() {
		t.advanceCascadeLocked()
	}
	return nil
}

// Act applies one betting action for the seat whose turn it is. To is the
// absolute street-contribution target for BET and RAISE and is ignored
// otherwise. An amount exceeding the seat's all-in ceiling is clamped to it.
func (t *Table) Act(seatID string, action Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	switch t.street {
	case StreetPreflop, StreetFlop, StreetTurn, StreetRiver:
	case StreetDone:
		return ErrNoHand
	default:
		return ErrWrongStreet
	}
	if t.turnIndex == noSeat || t.seats[t.turnIndex].ID != seatID {
		return ErrOutOfTurn
	}
	seat := t.seats[t.turnIndex]

	var level int64
	switch action.Type {
	case ActionFold:
		seat.Folded = true
		delete(t.owed, seat.ID)

	case ActionCheck:
		if seat.CurrentBet != t.streetBet {
			return ErrValidation(fmt.Sprintf("cannot check facing %d with %d in", t.streetBet, seat.CurrentBet))
		}
		delete(t.owed, seat.ID)

	case ActionCall:
		if t.streetBet <= seat.CurrentBet {
			return ErrValidation("nothing to call")
		}
		seat.post(t.streetBet - seat.CurrentBet)
		level = seat.CurrentBet
		delete(t.owed, seat.ID)

	case ActionBet:
		if t.streetBet != 0 {
			return ErrValidation("a bet is already open, raise instead")
		}
		ceiling := seat.CurrentBet + seat.Stack
		to := action.To
		if to > ceiling {
			to = ceiling
		}
		if to < t.cfg.BigBlind && to != ceiling {
			return ErrValidation(fmt.Sprintf("bet must be at least the big blind (%d)", t.cfg.BigBlind))
		}
		if to <= seat.CurrentBet {
			return ErrValidation("bet must put chips in")
		}
		seat.post(to - seat.CurrentBet)
		t.minRaise = to
		if t.minRaise < t.cfg.BigBlind {
			t.minRaise = t.cfg.BigBlind
		}
		t.streetBet = to
		level = to
		t.reopenOwedExcept(seat.ID)

	case ActionRaise:
		if t.streetBet == 0 {
			return ErrValidation("no bet to raise, bet instead")
		}
		ceiling := seat.CurrentBet + seat.Stack
		to := action.To
		if to > ceiling {
			to = ceiling
		}
		if to <= t.streetBet {
			return ErrValidation(fmt.Sprintf("raise must exceed the current bet of %d", t.streetBet))
		}
		if to < t.streetBet+t.minRaise && to != ceiling {
			return ErrValidation(fmt.Sprintf("minimum raise is to %d", t.streetBet+t.minRaise))
		}
		seat.post(to - seat.CurrentBet)
		t.minRaise = to - t.streetBet
		if t.minRaise < t.cfg.BigBlind {
			t.minRaise = t.cfg.BigBlind
		}
		t.streetBet = to
		level = to
		t.reopenOwedExcept(seat.ID)

	default:
		return ErrValidation(fmt.Sprintf("unknown action %q", action.Type.String()))
	}

	t.logAction(seat.ID, action.Type, level)
	t.pots = buildPots(t.seats)
	t.emit(Event{Type: EventActionTaken, Seat: seat.ID, Action: action.Type.String(), Amount: level})

	if t.activeCount() == 1 {
		t.finishUncontestedLocked()
		return nil
	}
	if t.roundComplete() {
		t.advanceCascadeLocked()
		return nil
	}
	t.turnIndex = t.nextIndex(t.turnIndex, func(s *Seat) bool { return s.capable() && t.owed[s.ID] })
	return nil
}

// ActionOptions is the legal-move projection for the seat whose turn it is.
// MinTo and MaxTo bound the absolute target level for BET or RAISE; CallTo
// is the level a CALL would reach after all-in clamping.
type ActionOptions struct {
	CanFold  bool  `json:"can_fold"`
	CanCheck bool  `json:"can_check"`
	CanCall  bool  `json:"can_call"`
	CanBet   bool  `json:"can_bet"`
	CanRaise bool  `json:"can_raise"`
	CallTo   int64 `json:"call_to,omitempty"`
	MinTo    int64 `json:"min_to,omitempty"`
	MaxTo    int64 `json:"max_to,omitempty"`
}

// LegalActions reports what the given seat may do right now, or ErrOutOfTurn
// when it is not that seat's turn.
func (t *Table) LegalActions(seatID string) (*ActionOptions, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return nil, ErrSessionEnded
	}
	switch t.street {
	case StreetPreflop, StreetFlop, StreetTurn, StreetRiver:
	case StreetDone:
		return nil, ErrNoHand
	default:
		return nil, ErrWrongStreet
	}
	if t.turnIndex == noSeat || t.seats[t.turnIndex].ID != seatID {
		return nil, ErrOutOfTurn
	}
	seat := t.seats[t.turnIndex]
	ceiling := seat.CurrentBet + seat.Stack

	opts := &ActionOptions{CanFold: true, MaxTo: ceiling}
	if seat.CurrentBet == t.streetBet {
		opts.CanCheck = true
	} else {
		opts.CanCall = true
		opts.CallTo = t.streetBet
		if opts.CallTo > ceiling {
			opts.CallTo = ceiling
		}
	}
	if t.streetBet == 0 {
		opts.CanBet = ceiling > 0
		opts.MinTo = t.cfg.BigBlind
	} else {
		opts.CanRaise = ceiling > t.streetBet
		opts.MinTo = t.streetBet + t.minRaise
	}
	if opts.MinTo > ceiling {
		opts.MinTo = ceiling
	}
	return opts, nil
}

// EndHand closes the current hand. Dealer only. At SHOWDOWN it confirms the
// settlement and clears the table; on any earlier street it voids the hand
// and refunds every contribution.
func (t *Table) EndHand(callerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ended {
		return ErrSessionEnded
	}
	if !t.isDealer(callerID) {
		return ErrNotDealer
	}
	switch t.street {
	case StreetDone:
		return ErrNoHand
	case StreetShowdown:
		t.resetHandLocked()
		return nil
	default:
		t.voidHandLocked(callerID)
		return nil
	}
}

// roundComplete holds when no capable seat is still owed an action. The owed
// set shrinks on check, call, and fold and is rebuilt on every bet or raise,
// so an empty set implies all capable seats have matched the street level.
func (t *Table) roundComplete() bool {
	return len(t.owed) == 0
}

func (t *Table) reopenOwedExcept(actorID string) {
	t.owed = make(map[string]bool)
	for _, s := range t.seats {
		if s.capable() && s.ID != actorID {
			t.owed[s.ID] = true
		}
	}
}

func (t *Table) dealerSeat() (*Seat, int) {
	for i, s := range t.seats {
		if s.Dealer {
			return s, i
		}
	}
	return nil, noSeat
}
