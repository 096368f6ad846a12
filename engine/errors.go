package engine

import "errors"

// Permission errors: caller lacks the dealer or bank role.
var (
	ErrNotDealer = errors.New("caller is not the dealer")
	ErrNotBank   = errors.New("caller is not the bank")
)

// Sequencing errors: operation invoked in the wrong street, out of turn, or
// against a hand in the wrong lifecycle state.
var (
	ErrOutOfTurn       = errors.New("action out of turn")
	ErrWrongStreet     = errors.New("operation not legal on this street")
	ErrRoundClosed     = errors.New("betting round already closed")
	ErrHandLive        = errors.New("hand in progress")
	ErrNoHand          = errors.New("no hand in progress")
	ErrSessionEnded    = errors.New("session has ended")
	ErrAlreadyRevealed = errors.New("hole cards already revealed")
	ErrNoSuchSeat      = errors.New("no such seat")
)

// ValidationError marks malformed or out-of-range input.
type ValidationError string

func (e ValidationError) Error() string { return "invalid input: " + string(e) }

func ErrValidation(msg string) error { return ValidationError(msg) }

// ResourceError marks a missing precondition resource, e.g. not enough
// funded seats to start a hand.
type ResourceError string

func (e ResourceError) Error() string { return "resource: " + string(e) }

func ErrResource(msg string) error { return ResourceError(msg) }
