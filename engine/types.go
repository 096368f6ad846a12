package engine

import (
	"time"

	"pokernight/card"
)

// Street is the betting phase of a hand. DONE is the between-hands resting
// state; it is absorbing until StartHand resets to PREFLOP.
type Street byte

const (
	StreetPreflop  Street = 0
	StreetFlop     Street = 1
	StreetTurn     Street = 2
	StreetRiver    Street = 3
	StreetShowdown Street = 4
	StreetDone     Street = 5
)

var streetNames = map[Street]string{
	StreetPreflop:  "PREFLOP",
	StreetFlop:     "FLOP",
	StreetTurn:     "TURN",
	StreetRiver:    "RIVER",
	StreetShowdown: "SHOWDOWN",
	StreetDone:     "DONE",
}

func (s Street) String() string {
	if name, ok := streetNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Next is the forward-only successor. DONE has no successor.
func (s Street) Next() Street {
	if s >= StreetDone {
		return StreetDone
	}
	return s + 1
}

// ActionType identifies a player betting intent.
type ActionType byte

const (
	ActionNone  ActionType = 0
	ActionFold  ActionType = 1
	ActionCheck ActionType = 2
	ActionCall  ActionType = 3
	ActionBet   ActionType = 4
	ActionRaise ActionType = 5
)

var ActionTypeDictionary = map[ActionType]string{
	ActionNone:  "NONE",
	ActionFold:  "FOLD",
	ActionCheck: "CHECK",
	ActionCall:  "CALL",
	ActionBet:   "BET",
	ActionRaise: "RAISE",
}

func (a ActionType) String() string {
	if name, ok := ActionTypeDictionary[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Action is a player intent. To is the absolute target street-contribution
// level for BET and RAISE, not a delta; it is ignored for the other types.
type Action struct {
	Type ActionType
	To   int64
}

// DisclosureKind is a seat's showdown choice.
type DisclosureKind byte

const (
	DiscloseMuck      DisclosureKind = 0
	DiscloseOneCard   DisclosureKind = 1
	DiscloseBothCards DisclosureKind = 2
)

func (k DisclosureKind) String() string {
	switch k {
	case DiscloseMuck:
		return "MUCK"
	case DiscloseOneCard:
		return "SHOW_ONE"
	case DiscloseBothCards:
		return "SHOW_BOTH"
	}
	return "UNKNOWN"
}

// Disclosure records what a seat chose to show at showdown. Card is only
// meaningful for DiscloseOneCard.
type Disclosure struct {
	Kind DisclosureKind
	Card card.Card
}

// HandPositions are the per-hand forced-bet seat indices, computed once at
// StartHand from the previous button's successor. Straddle is -1 when no
// straddle was posted.
type HandPositions struct {
	Button     int
	SmallBlind int
	BigBlind   int
	Straddle   int
}

// ActionRecord is one entry of the table's bounded recent-action log.
type ActionRecord struct {
	Seat   string    `json:"seat"`
	Action string    `json:"action"`
	Amount int64     `json:"amount"`
	Street string    `json:"street"`
	At     time.Time `json:"at"`
}
