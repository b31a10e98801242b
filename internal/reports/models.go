package reports

import (
	"time"

	"github.com/google/uuid"
)

// ShowReport is the per-show revenue and occupancy rollup.
type ShowReport struct {
	ShowID           uuid.UUID `json:"show_id"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	Status           string    `json:"status"`
	TotalSeats       int       `json:"total_seats"`
	SeatsSold        int       `json:"seats_sold"`
	OccupancyPercent float64   `json:"occupancy_percent"`
	Revenue          float64   `json:"revenue"`
	Bookings         int       `json:"bookings"`
	Cancellations    int       `json:"cancellations"`
}

// DailySales aggregates tickets issued per serial date across all shows.
type DailySales struct {
	SerialDate    string  `json:"serial_date"`
	TicketsIssued int     `json:"tickets_issued"`
	TicketsActive int     `json:"tickets_active"`
	Revenue       float64 `json:"revenue"`
	FirstSequence int     `json:"first_sequence"`
	LastSequence  int     `json:"last_sequence"`
}

// Summary is the top-line dashboard view.
type Summary struct {
	TotalShows       int     `json:"total_shows"`
	TotalBookings    int     `json:"total_bookings"`
	TotalTickets     int     `json:"total_tickets"`
	TotalRevenue     float64 `json:"total_revenue"`
	CancellationRate float64 `json:"cancellation_rate"`
}

// BookingExportRow is one CSV line of the per-show booking export.
type BookingExportRow struct {
	BookingRef string
	SeatCode   string
	TicketCode string
	Price      float64
	Status     string
	BookedBy   string
	BookedAt   time.Time
}
