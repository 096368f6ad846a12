package engine

import "fmt"

const defaultActionLogCap = 32

// Config is the immutable construction input of a Table. Blind sizes and the
// straddle flag can be changed later through SetBlinds (bank only).
type Config struct {
	TableID   string
	SessionID string

	MaxSeats int

	SmallBlind      int64
	BigBlind        int64
	StraddleEnabled bool

	// Cap of the recent-action log kept on the table (0 => default).
	ActionLogCap int

	// RNG seed (0 => time-based).
	Seed int64

	// Sink receives one domain event per successful mutation. Nil is allowed.
	Sink EventSink
}

func (c Config) validate() error {
	if c.TableID == "" {
		return ErrValidation("empty table id")
	}
	if c.MaxSeats <= 1 {
		return ErrValidation("MaxSeats must be > 1")
	}
	if c.MaxSeats > 10 {
		return fmt.Errorf("MaxSeats must be <= 10, got %d", c.MaxSeats)
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 || c.SmallBlind >= c.BigBlind {
		return ErrValidation(fmt.Sprintf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind))
	}
	if c.ActionLogCap < 0 {
		return ErrValidation("ActionLogCap must be >= 0")
	}
	return nil
}
