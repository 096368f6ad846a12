package engine

import "time"

// EventType names a domain event emitted after a successful mutation.
type EventType string

const (
	EventSessionStarted EventType = "session-started"
	EventSessionEnded   EventType = "session-ended"
	EventSeatAdded      EventType = "seat-added"
	EventDealerAssigned EventType = "dealer-assigned"
	EventBankAssigned   EventType = "bank-assigned"
	EventStackSet       EventType = "stack-set"
	EventBlindsSet      EventType = "blinds-set"
	EventConnLost       EventType = "connection-lost"
	EventConnRestored   EventType = "connection-restored"
	EventHandStarted    EventType = "hand-started"
	EventBlindPosted    EventType = "blind-posted"
	EventStraddlePosted EventType = "straddle-posted"
	EventActionTaken    EventType = "action-taken"
	EventStreetAdvanced EventType = "street-advanced"
	EventPotAwarded     EventType = "pot-awarded"
	EventHandEnded      EventType = "hand-ended"
	EventHandVoided     EventType = "hand-voided"
	EventShowdownChoice EventType = "showdown-choice"
	EventCardsRevealed  EventType = "cards-revealed"
)

// Event is one immutable entry of the append-only session log. Payload
// fields are populated per type and carry enough context (seat identities,
// amounts, board, street) for downstream tools to reconstruct a hand without
// any other source.
type Event struct {
	Type      EventType `json:"type"`
	At        time.Time `json:"at"`
	TableID   string    `json:"table_id"`
	SessionID string    `json:"session_id"`
	HandNum   uint32    `json:"hand_num,omitempty"`

	Seat   string `json:"seat,omitempty"`
	Target string `json:"target,omitempty"`
	Street string `json:"street,omitempty"`
	Action string `json:"action,omitempty"`
	Amount int64  `json:"amount,omitempty"`

	Board   []string `json:"board,omitempty"`
	Cards   []string `json:"cards,omitempty"`
	Winners []string `json:"winners,omitempty"`

	Auto  bool `json:"auto,omitempty"`
	Split bool `json:"split,omitempty"`

	SmallBlind int64 `json:"small_blind,omitempty"`
	BigBlind   int64 `json:"big_blind,omitempty"`
	Straddle   bool  `json:"straddle,omitempty"`

	Detail string `json:"detail,omitempty"`
}

// EventSink receives engine events. Implementations must be fast and must
// not call back into the table; the engine invokes Append while holding the
// table lock.
type EventSink interface {
	Append(Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(Event)

func (f SinkFunc) Append(e Event) { f(e) }

func (t *Table) emit(e Event) {
	e.At = time.Now().UTC()
	e.TableID = t.id
	e.SessionID = t.sessionID
	e.HandNum = t.handNum
	if e.Street == "" && t.street != StreetDone {
		e.Street = t.street.String()
	}
	if t.sink != nil {
		t.sink.Append(e)
	}
}
