package engine

import "pokernight/card"

// advanceCascadeLocked moves to the next street after a betting round closes,
// dealing the board as it goes. When fewer than two seats can still act the
// remaining streets run out back to back until showdown settles the hand.
func (t *Table) advanceCascadeLocked() {
	for {
		for _, s := range t.seats {
			s.CurrentBet = 0
		}
		t.streetBet = 0
		t.minRaise = t.cfg.BigBlind
		t.owed = nil
		t.turnIndex = noSeat

		t.street = t.street.Next()
		if t.street == StreetShowdown {
			t.settleShowdownLocked()
			return
		}

		var n int
		switch t.street {
		case StreetFlop:
			n = 3
		case StreetTurn, StreetRiver:
			n = 1
		}
		dealt, ok := t.deck.PopCards(n)
		if !ok {
			panic("engine: deck exhausted mid-hand")
		}
		t.board = append(t.board, dealt...)

		for _, s := range t.seats {
			if !s.active() {
				continue
			}
			all := make([]card.Card, 0, len(s.holeCards)+len(t.board))
			all = append(all, s.holeCards...)
			all = append(all, t.board...)
			if hv := EvaluateBest(all); hv != nil {
				s.bestLabel = hv.Label
			}
		}

		t.pots = buildPots(t.seats)
		t.emit(Event{Type: EventStreetAdvanced, Board: card.Codes(t.board)})

		if t.capableCount() < 2 {
			continue
		}

		t.rebuildOwed()
		t.turnIndex = t.nextIndex(t.positions.Button, func(s *Seat) bool { return s.capable() })
		return
	}
}

// finishUncontestedLocked ends the hand when every seat but one has folded.
// The survivor collects all contributions, their own uncalled excess
// included, without showing cards. Unlike a contested showdown there is
// nothing left to confirm, so the hand closes on the spot with no dealer
// action needed.
func (t *Table) finishUncontestedLocked() {
	var winner *Seat
	for _, s := range t.seats {
		if s.active() {
			winner = s
			break
		}
	}

	t.pots = buildPots(t.seats)
	total := potTotal(t.pots)
	winner.Stack += total

	t.emit(Event{Type: EventPotAwarded, Amount: total, Winners: []string{winner.ID}, Auto: true})
	t.emit(Event{Type: EventHandEnded, Winners: []string{winner.ID}, Detail: "uncontested"})
	t.resetHandLocked()
}

// settleShowdownLocked partitions contributions into pots, picks winners per
// pot, and credits stacks. A pot with a single eligible seat is the uncalled
// excess of the deepest stack and returns to it without evaluation. Winners
// of a contested pot have their cards revealed. Split pots divide evenly with
// any remainder chip going to the first winner in table seat order.
func (t *Table) settleShowdownLocked() {
	t.pots = buildPots(t.seats)

	contenders := make(map[string]Contender, len(t.seats))
	for _, s := range t.seats {
		if s.active() {
			contenders[s.ID] = Contender{SeatID: s.ID, Hole: s.holeCards}
		}
	}

	var best *HandValue
	allWinners := make([]string, 0, 2)
	seen := map[string]bool{}
	for i := range t.pots {
		pot := &t.pots[i]
		if len(pot.Eligible) == 1 {
			pot.Winners = pot.Eligible
			pot.Auto = true
		} else {
			cs := make([]Contender, 0, len(pot.Eligible))
			for _, id := range pot.Eligible {
				cs = append(cs, contenders[id])
			}
			pot.Winners = FindWinners(cs, t.board)
			pot.Split = len(pot.Winners) > 1
		}

		share := pot.Amount / int64(len(pot.Winners))
		remainder := pot.Amount % int64(len(pot.Winners))
		for wi, id := range pot.Winners {
			seat, _ := t.seatByID(id)
			seat.Stack += share
			if wi == 0 {
				seat.Stack += remainder
			}
			if !pot.Auto {
				seat.revealed = true
				all := append(append(make([]card.Card, 0, 7), seat.holeCards...), t.board...)
				if hv := EvaluateBest(all); hv != nil {
					seat.bestLabel = hv.Label
					if best == nil || hv.Score > best.Score {
						best = hv
					}
				}
				if !seen[id] {
					seen[id] = true
					allWinners = append(allWinners, id)
				}
			}
		}
		t.emit(Event{Type: EventPotAwarded, Amount: pot.Amount, Winners: pot.Winners, Auto: pot.Auto, Split: pot.Split})
	}

	if best != nil {
		t.bestHand = best.Label
	}
	for _, s := range t.seats {
		s.CurrentBet = 0
		s.TotalBet = 0
	}
	t.street = StreetShowdown
	t.emit(Event{Type: EventHandEnded, Winners: allWinners, Board: card.Codes(t.board), Detail: t.bestHand})
}

// voidHandLocked cancels a live hand, returning every contribution to its
// seat. Nothing is evaluated and no pot moves.
func (t *Table) voidHandLocked(callerID string) {
	for _, s := range t.seats {
		s.Stack += s.TotalBet
	}
	t.emit(Event{Type: EventHandVoided, Seat: callerID})
	t.resetHandLocked()
}

func (t *Table) resetHandLocked() {
	t.street = StreetDone
	t.board = nil
	t.deck = nil
	t.pots = nil
	t.positions = nil
	t.owed = nil
	t.turnIndex = noSeat
	t.streetBet = 0
	t.minRaise = 0
	t.bestHand = ""
	for _, s := range t.seats {
		s.resetForNewHand()
	}
}
