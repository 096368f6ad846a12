package engine

import "pokernight/card"

// SeatView is one seat as a given viewer may see it. Cards holds the hole
// cards the viewer is entitled to: their own always, another seat's only
// once revealed or disclosed at showdown.
type SeatView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Dealer    bool     `json:"dealer,omitempty"`
	Bank      bool     `json:"bank,omitempty"`
	Connected bool     `json:"connected"`
	Stack     int64    `json:"stack"`
	InHand    bool     `json:"in_hand,omitempty"`
	Folded    bool     `json:"folded,omitempty"`
	AllIn     bool     `json:"all_in,omitempty"`
	Bet       int64    `json:"bet,omitempty"`
	TotalBet  int64    `json:"total_bet,omitempty"`
	Cards     []string `json:"cards,omitempty"`
	BestHand  string   `json:"best_hand,omitempty"`
	Disclosed string   `json:"disclosed,omitempty"`
}

// PotView is one settled or live pot tier.
type PotView struct {
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners,omitempty"`
	Auto     bool     `json:"auto,omitempty"`
	Split    bool     `json:"split,omitempty"`
}

// Snapshot is a point-in-time view of the table, redacted for one viewer.
// The undealt deck never appears in any snapshot.
type Snapshot struct {
	TableID    string         `json:"table_id"`
	SessionID  string         `json:"session_id"`
	HandNum    uint32         `json:"hand_num"`
	Street     string         `json:"street"`
	SmallBlind int64          `json:"small_blind"`
	BigBlind   int64          `json:"big_blind"`
	Straddle   bool           `json:"straddle"`
	Seats      []SeatView     `json:"seats"`
	Board      []string       `json:"board,omitempty"`
	Pots       []PotView      `json:"pots,omitempty"`
	Turn       string         `json:"turn,omitempty"`
	StreetBet  int64          `json:"street_bet,omitempty"`
	MinRaiseTo int64          `json:"min_raise_to,omitempty"`
	Button     string         `json:"button,omitempty"`
	BestHand   string         `json:"best_hand,omitempty"`
	Actions    []ActionRecord `json:"actions,omitempty"`
	Ended      bool           `json:"ended,omitempty"`
}

// SnapshotFor renders the table as viewerID is allowed to see it. An unknown
// or empty viewer id yields the spectator view with every hole card hidden
// unless shown to the whole table.
func (t *Table) SnapshotFor(viewerID string) *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := &Snapshot{
		TableID:    t.id,
		SessionID:  t.sessionID,
		HandNum:    t.handNum,
		Street:     t.street.String(),
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		Straddle:   t.cfg.StraddleEnabled,
		Board:      card.Codes(t.board),
		StreetBet:  t.streetBet,
		BestHand:   t.bestHand,
		Actions:    append([]ActionRecord{}, t.actionLog...),
		Ended:      t.ended,
	}
	if t.streetBet > 0 {
		snap.MinRaiseTo = t.streetBet + t.minRaise
	}
	if t.turnIndex != noSeat {
		snap.Turn = t.seats[t.turnIndex].ID
	}
	if t.positions != nil {
		snap.Button = t.seats[t.positions.Button].ID
	}

	for _, s := range t.seats {
		sv := SeatView{
			ID:        s.ID,
			Name:      s.Name,
			Dealer:    s.Dealer,
			Bank:      s.ID == t.bankID,
			Connected: s.Connected,
			Stack:     s.Stack,
			InHand:    s.InHand,
			Folded:    s.Folded,
			AllIn:     s.AllIn(),
			Bet:       s.CurrentBet,
			TotalBet:  s.TotalBet,
		}
		if cards := t.visibleCards(s, viewerID); len(cards) > 0 {
			sv.Cards = card.Codes(cards)
		}
		if s.ID == viewerID || s.revealed {
			sv.BestHand = s.bestLabel
		}
		if s.disclosure != nil {
			sv.Disclosed = s.disclosure.Kind.String()
		}
		snap.Seats = append(snap.Seats, sv)
	}

	for _, p := range t.pots {
		snap.Pots = append(snap.Pots, PotView{
			Amount:   p.Amount,
			Eligible: append([]string{}, p.Eligible...),
			Winners:  append([]string{}, p.Winners...),
			Auto:     p.Auto,
			Split:    p.Split,
		})
	}
	return snap
}

// visibleCards applies the redaction rules for one seat's hole cards.
func (t *Table) visibleCards(s *Seat, viewerID string) []card.Card {
	if len(s.holeCards) == 0 {
		return nil
	}
	if s.ID == viewerID || s.revealed {
		return s.holeCards
	}
	if t.street == StreetShowdown && s.disclosure != nil {
		switch s.disclosure.Kind {
		case DiscloseOneCard:
			return []card.Card{s.disclosure.Card}
		case DiscloseBothCards:
			return s.holeCards
		}
	}
	return nil
}
