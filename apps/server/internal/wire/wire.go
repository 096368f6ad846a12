// Package wire defines the JSON envelopes exchanged over the websocket.
package wire

import "pokernight/engine"

// Client message types.
const (
	ClientHello          = "hello"
	ClientCreateTable    = "create-table"
	ClientJoinTable      = "join-table"
	ClientSetDealer      = "set-dealer"
	ClientSetBank        = "set-bank"
	ClientSetStack       = "set-stack"
	ClientSetBlinds      = "set-blinds"
	ClientStartHand      = "start-hand"
	ClientAct            = "act"
	ClientEndHand        = "end-hand"
	ClientShowdownChoice = "showdown-choice"
	ClientReveal         = "reveal"
	ClientSitOut         = "sit-out"
	ClientSitIn          = "sit-in"
	ClientEndSession     = "end-session"
	ClientOptions        = "options"
)

// Server message types.
const (
	ServerWelcome      = "welcome"
	ServerJoined       = "joined"
	ServerSnapshot     = "snapshot"
	ServerOptions      = "options"
	ServerError        = "error"
	ServerSessionEnded = "session-ended"
)

// ClientMessage is one request from a connected player. Fields beyond Type
// are populated per message type.
type ClientMessage struct {
	Type string `json:"type"`

	// hello
	Token string `json:"token,omitempty"`
	Name  string `json:"name,omitempty"`

	// join-table
	TableID string `json:"table_id,omitempty"`

	// create-table / set-blinds
	SmallBlind int64 `json:"small_blind,omitempty"`
	BigBlind   int64 `json:"big_blind,omitempty"`
	Straddle   bool  `json:"straddle,omitempty"`
	MaxSeats   int   `json:"max_seats,omitempty"`

	// set-dealer / set-bank / set-stack
	Target string `json:"target,omitempty"`
	Amount int64  `json:"amount,omitempty"`

	// act
	Action string `json:"action,omitempty"`
	To     int64  `json:"to,omitempty"`

	// showdown-choice
	Choice string `json:"choice,omitempty"`
	Card   string `json:"card,omitempty"`
}

// ServerMessage is one push to a connected player.
type ServerMessage struct {
	Type    string `json:"type"`
	TableID string `json:"table_id,omitempty"`
	Seat    string `json:"seat,omitempty"`

	Snapshot *engine.Snapshot      `json:"snapshot,omitempty"`
	Options  *engine.ActionOptions `json:"options,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err builds an error push.
func Err(code, msg string) ServerMessage {
	return ServerMessage{Type: ServerError, Code: code, Message: msg}
}
