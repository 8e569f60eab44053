package domain

import "errors"

var (
	// ErrCapabilityNotFound is returned when a capability record is queried for
	// a user who never had a relationship with the piece/edition. This is an
	// invariant violation on the caller's side, not a soft "all false" case.
	ErrCapabilityNotFound = errors.New("capability record not found")

	// ErrNotAllowed is returned when the actor lacks the capability flag an
	// ownership action requires
	ErrNotAllowed = errors.New("action not allowed for user")

	// ErrOwnershipNotFound is returned when an ownership event is not found
	ErrOwnershipNotFound = errors.New("ownership event not found")

	// ErrPendingActionExists is returned when an action would create a second
	// concurrent pending event of a kind that allows at most one per edition
	ErrPendingActionExists = errors.New("a pending action of this kind already exists for the edition")

	// ErrInvalidEventState is returned when a transaction is built from an
	// ownership event missing required addresses. Address derivation is
	// expected to have completed earlier in the protocol, so this is an
	// internal invariant violation.
	ErrInvalidEventState = errors.New("ownership event state is invalid for transaction building")

	// ErrInsufficientFunds is returned when the funding pool has no selectable
	// unspent outputs of the required denominations
	ErrInsufficientFunds = errors.New("insufficient funds in wallet")

	// ErrInvalidAddress is returned when an address fails base58check decoding
	ErrInvalidAddress = errors.New("invalid bitcoin address")

	// ErrBroadcastFailed is returned for any other broadcaster failure
	ErrBroadcastFailed = errors.New("transaction broadcast failed")

	// ErrInvalidStatusTransition is returned when a transaction status update
	// would move backwards (status only moves pending -> unconfirmed ->
	// confirmed, or to rejected from any non-confirmed state)
	ErrInvalidStatusTransition = errors.New("invalid transaction status transition")

	// ErrWrongPassword is returned when a sealed WIF does not decrypt under
	// the supplied password
	ErrWrongPassword = errors.New("password does not unseal key material")
)
