package engine

import "pokernight/card"

// Seat is one chair at the table. Stack holds chips not yet wagered this
// hand; CurrentBet is this street's contribution and TotalBet the cumulative
// contribution this hand (side-pot math runs on TotalBet).
type Seat struct {
	ID        string
	Name      string
	Dealer    bool
	Connected bool

	Stack      int64
	InHand     bool
	Folded     bool
	CurrentBet int64
	TotalBet   int64

	holeCards card.CardList
	bestLabel string

	revealed   bool
	disclosure *Disclosure
}

// HoleCards returns the seat's private cards (present only while InHand).
func (s *Seat) HoleCards() []card.Card { return s.holeCards }

// BestHandLabel is the derived live-hand description, recomputed each street.
func (s *Seat) BestHandLabel() string { return s.bestLabel }

func (s *Seat) Revealed() bool { return s.revealed }

// AllIn reports a seat that is still in the hand with nothing left to wager.
func (s *Seat) AllIn() bool { return s.InHand && !s.Folded && s.Stack == 0 }

// capable reports whether the seat can still take a betting action.
func (s *Seat) capable() bool { return s.InHand && !s.Folded && s.Stack > 0 }

// active reports a seat still contending for the pot.
func (s *Seat) active() bool { return s.InHand && !s.Folded }

func (s *Seat) resetForNewHand() {
	s.InHand = false
	s.Folded = false
	s.CurrentBet = 0
	s.TotalBet = 0
	s.holeCards = nil
	s.bestLabel = ""
	s.revealed = false
	s.disclosure = nil
}

// post moves up to amount chips from stack into the seat's street and hand
// contributions, stopping at all-in. It returns the amount actually moved.
func (s *Seat) post(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > s.Stack {
		amount = s.Stack
	}
	s.Stack -= amount
	s.CurrentBet += amount
	s.TotalBet += amount
	return amount
}
