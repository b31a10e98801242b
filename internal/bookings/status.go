package bookings

// BookingStatus is the booking lifecycle state. Bookings are never deleted
// in normal operation, only flipped to CANCELLED.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// TicketStatus is the ticket lifecycle state.
type TicketStatus string

const (
	TicketActive    TicketStatus = "ACTIVE"
	TicketCompleted TicketStatus = "COMPLETED"
	TicketRevoked   TicketStatus = "REVOKED"
)
