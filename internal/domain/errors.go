package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Membership errors
	ErrMsgNotAMember       = "participant is not an active member of the pot"
	ErrMsgAlreadyPenalized = "participant already penalized"
	ErrMsgEmptyParticipant = "participant is required"

	// Pot errors
	ErrMsgPotNotFound      = "pot not found"
	ErrMsgPotAlreadyExists = "pot already exists"
	ErrMsgNotPotCreator    = "only the pot creator may do this"

	// Settlement errors
	ErrMsgOutcomeNotDecided = "outcome not decided"
	ErrMsgNoWinners         = "no participant predicted the decided outcome"

	// Input errors
	ErrMsgInvalidInput     = "invalid input"
	ErrMsgInvalidDirection = "invalid direction"
	ErrMsgInvalidDate      = "invalid date"
	ErrMsgInvalidEventType = "invalid participation event type"

	// Store errors
	ErrMsgStoreUnavailable = "store unavailable"

	// Sweep errors
	ErrMsgSweepInProgress = "penalty sweep already running"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotAMember       = errors.New(ErrMsgNotAMember)
	ErrAlreadyPenalized = errors.New(ErrMsgAlreadyPenalized)
	ErrEmptyParticipant = errors.New(ErrMsgEmptyParticipant)

	ErrPotNotFound      = errors.New(ErrMsgPotNotFound)
	ErrPotAlreadyExists = errors.New(ErrMsgPotAlreadyExists)
	ErrNotPotCreator    = errors.New(ErrMsgNotPotCreator)

	ErrOutcomeNotDecided = errors.New(ErrMsgOutcomeNotDecided)
	ErrNoWinners         = errors.New(ErrMsgNoWinners)

	ErrInvalidInput     = errors.New(ErrMsgInvalidInput)
	ErrInvalidDirection = errors.New(ErrMsgInvalidDirection)
	ErrInvalidDate      = errors.New(ErrMsgInvalidDate)
	ErrInvalidEventType = errors.New(ErrMsgInvalidEventType)

	// ErrStoreUnavailable wraps every failed store round trip. Writes that
	// return it did not happen and may be retried by the user.
	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)

	ErrSweepInProgress = errors.New(ErrMsgSweepInProgress)
)

// OutcomeNotDecidedError carries the tally that blocked a settlement so the
// caller can display it instead of retrying.
type OutcomeNotDecidedError struct {
	Status OutcomeStatus
}

func (e *OutcomeNotDecidedError) Error() string {
	return ErrMsgOutcomeNotDecided
}

// Unwrap lets errors.Is match ErrOutcomeNotDecided
func (e *OutcomeNotDecidedError) Unwrap() error {
	return ErrOutcomeNotDecided
}
