package ledger

import "errors"

// Domain errors returned by ledger operations. Handlers map these to HTTP
// statuses with errors.Is; validation failures wrap ErrValidation with the
// offending detail.
var (
	// ErrNotFound indicates a referenced account or request does not
	// resolve within the caller's visible set.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates an approve/reject was attempted on a
	// request that is no longer pending.
	ErrInvalidState = errors.New("request is not pending")

	// ErrInsufficientFunds indicates the source balance is less than the
	// requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrValidation indicates a precondition on the inputs failed.
	ErrValidation = errors.New("validation failed")
)
