package leave

import "errors"

var (
	// ErrInsufficientBalance: requested days exceed the remaining balance.
	// Recoverable, surfaced to the requester before any state is mutated.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrOverlapConflict: the date range intersects an active request for the
	// same employee. Touching ranges count.
	ErrOverlapConflict = errors.New("leave request overlaps an active request")

	// ErrInvariantViolation: a commit/release would drive used or pending days
	// negative. A caller lifecycle bug; the mutation is refused, never clamped.
	ErrInvariantViolation = errors.New("leave balance invariant violation")

	ErrBalanceNotFound         = errors.New("leave balance not found")
	ErrLeaveTypeNotFound       = errors.New("leave type not found")
	ErrRequestNotFound         = errors.New("leave request not found")
	ErrRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveAlreadyStarted     = errors.New("leave period has already started")
	ErrUnauthorizedAccess      = errors.New("unauthorized to access this leave request")
)
