package bookings

import "errors"

var (
	// ErrBookingTimeout is returned when a booking call could not acquire
	// the per-show lock within the configured wait bound.
	ErrBookingTimeout = errors.New("timed out waiting for show booking lock")

	// ErrUnknownSeat is returned when a requested seat code does not exist
	// in the show's layout.
	ErrUnknownSeat = errors.New("seat code not in show layout")

	// ErrNoSeats is returned when a booking request carries no seat codes.
	ErrNoSeats = errors.New("no seat codes in request")

	// ErrDuplicateSeats is returned when the requested seat codes are not
	// distinct.
	ErrDuplicateSeats = errors.New("duplicate seat codes in request")

	// ErrBookingNotFound is returned for lookups of unknown bookings.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyCancelled is returned when cancelling a booking twice.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// errSeatTaken signals a unique-index violation on a confirmed seat
	// inside the insert transaction. Mapped back to a conflict result by
	// the service, never surfaced to callers.
	errSeatTaken = errors.New("seat already confirmed for this show")
)
