package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Business-rule conflicts are returned
// as these values and mapped to HTTP status codes in the delivery layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Purchase rejections.
	ErrUnknownTicketType     = errors.New("ticket type not found on this event")
	ErrInsufficientInventory = errors.New("no tickets available for this type")
	ErrPriceMismatch         = errors.New("price paid does not match ticket price")

	// Check-in rejections.
	ErrEventMismatch    = errors.New("ticket does not belong to this event")
	ErrAlreadyFullyUsed = errors.New("ticket already fully used")

	// OTP verification failure (wrong, expired, or already used code).
	ErrInvalidOTP = errors.New("invalid or expired code")

	// Storage-level uniqueness conflicts. Token and link conflicts mean the
	// generator collided and the caller should retry with a fresh value; an
	// idempotency conflict means the same purchase was submitted twice
	// concurrently and the stored outcome should be returned instead.
	ErrTokenConflict       = errors.New("participant token already in use")
	ErrLinkConflict        = errors.New("event link already in use")
	ErrIdempotencyConflict = errors.New("purchase with this idempotency key already exists")
)

// InsufficientRemainingError rejects a check-in that asks for more entries than
// the participant has left. Remaining carries the exact count still available so
// door staff can retry with a corrected number instead of re-scanning.
type InsufficientRemainingError struct {
	Remaining int
}

func (e *InsufficientRemainingError) Error() string {
	return fmt.Sprintf("only %d entries remaining on this ticket", e.Remaining)
}
