package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking is the parent order created by one booking transaction. Each seat
// is a separate BookingSeat line so per-seat status and cancellation work
// without string parsing.
type Booking struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingRef   string        `json:"booking_ref" gorm:"uniqueIndex;not null"`
	ShowID       uuid.UUID     `json:"show_id" gorm:"type:uuid;not null;index"`
	CustomerID   *uuid.UUID    `json:"customer_id,omitempty" gorm:"type:uuid;index"`
	BookedBy     string        `json:"booked_by" gorm:"not null"`
	Status       BookingStatus `json:"status" gorm:"not null;default:'CONFIRMED';index"`
	TotalSeats   int           `json:"total_seats" gorm:"not null"`
	TotalPrice   float64       `json:"total_price" gorm:"not null"`
	CancelledAt  *time.Time    `json:"cancelled_at,omitempty"`
	CancelReason string        `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	Seats   []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID"`
	Tickets []Ticket      `json:"tickets,omitempty" gorm:"foreignKey:BookingID"`
}

// BookingSeat is one reserved physical seat. Status mirrors the parent
// booking so the partial unique index on (show_id, seat_code) only guards
// CONFIRMED rows.
type BookingSeat struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID     `json:"booking_id" gorm:"type:uuid;not null;index"`
	ShowID    uuid.UUID     `json:"show_id" gorm:"type:uuid;not null;index"`
	SeatCode  string        `json:"seat_code" gorm:"not null"`
	Price     float64       `json:"price" gorm:"not null"`
	Status    BookingStatus `json:"status" gorm:"not null;default:'CONFIRMED'"`
	CreatedAt time.Time     `json:"created_at"`
}

// Ticket is the printable admission record, one per seat per booking.
// SerialDate and SequenceNo are stored alongside the formatted code so the
// next-sequence query aggregates integers instead of parsing codes.
type Ticket struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID   uuid.UUID    `json:"booking_id" gorm:"type:uuid;not null;index"`
	ShowID      uuid.UUID    `json:"show_id" gorm:"type:uuid;not null;index"`
	SeatCode    string       `json:"seat_code" gorm:"not null"`
	TicketCode  string       `json:"ticket_code" gorm:"uniqueIndex;not null"`
	SerialDate  string       `json:"serial_date" gorm:"type:char(8);not null;index"`
	SequenceNo  int          `json:"sequence_no" gorm:"not null"`
	Price       float64      `json:"price" gorm:"not null"`
	GeneratedBy string       `json:"generated_by" gorm:"not null"`
	Status      TicketStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
	CreatedAt   time.Time    `json:"generated_at"`
	UpdatedAt   time.Time    `json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

func (Ticket) TableName() string {
	return "tickets"
}

// FormatTicketCode renders the wire-visible ticket code:
// TKT-<YYYYMMDD>-<NNNN>-<seatCode>, NNNN zero-padded to 4 digits.
func FormatTicketCode(serialDate string, sequenceNo int, seatCode string) string {
	return fmt.Sprintf("TKT-%s-%04d-%s", serialDate, sequenceNo, seatCode)
}

// NewBookingRef mints a short human-quotable booking reference.
func NewBookingRef() string {
	return "BKG-" + strings.ToUpper(uuid.New().String()[:8])
}

// BookSeatsRequest is the caller payload for the atomic booking transaction.
type BookSeatsRequest struct {
	ShowID     string   `json:"show_id" validate:"required,uuid"`
	SeatCodes  []string `json:"seat_codes" validate:"required,min=1,dive,required"`
	CustomerID string   `json:"customer_id,omitempty" validate:"omitempty,uuid"`
}

// CancelBookingRequest carries the cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// IssuedTicket is the per-seat outcome of a successful booking.
type IssuedTicket struct {
	TicketCode string  `json:"ticket_code"`
	SeatCode   string  `json:"seat_code"`
	Price      float64 `json:"price"`
}

// BookingResult is the structured outcome of BookSeats. A conflict is data,
// not an error: Success is false and Conflicts lists the seat codes already
// held by confirmed bookings so the caller can retry with a reduced set.
type BookingResult struct {
	Success    bool           `json:"success"`
	BookingID  uuid.UUID      `json:"booking_id,omitempty"`
	BookingRef string         `json:"booking_ref,omitempty"`
	Tickets    []IssuedTicket `json:"tickets,omitempty"`
	Conflicts  []string       `json:"conflicts,omitempty"`
	SeatCount  int            `json:"seat_count"`
	TotalPrice float64        `json:"total_price,omitempty"`
}

// SeatAvailability is the read-side view of a show's ledger.
type SeatAvailability struct {
	ShowID         uuid.UUID `json:"show_id"`
	TotalSeats     int       `json:"total_seats"`
	BookedSeats    []string  `json:"booked_seats"`
	AvailableSeats int       `json:"available_seats"`
}
