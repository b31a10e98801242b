package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a booking lifecycle event on the wire.
type EventType string

const (
	EventTicketsIssued    EventType = "TICKET_ISSUED"
	EventBookingCancelled EventType = "BOOKING_CANCELLED"
)

// TicketInfo is the per-seat slice of a booking event payload.
type TicketInfo struct {
	TicketCode string  `json:"ticket_code"`
	SeatCode   string  `json:"seat_code"`
	Price      float64 `json:"price"`
}

// BookingEvent is the message published for every booking lifecycle change.
type BookingEvent struct {
	ID         uuid.UUID    `json:"id"`
	Type       EventType    `json:"type"`
	BookingID  uuid.UUID    `json:"booking_id"`
	BookingRef string       `json:"booking_ref"`
	ShowID     uuid.UUID    `json:"show_id"`
	CustomerID *uuid.UUID   `json:"customer_id,omitempty"`
	BookedBy   string       `json:"booked_by"`
	Tickets    []TicketInfo `json:"tickets,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (*BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PartitionKey routes all events of one show to the same partition so
// consumers observe booking and cancellation in order.
func (e *BookingEvent) PartitionKey() string {
	return e.ShowID.String()
}
