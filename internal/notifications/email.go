package notifications

import (
	"context"
	"fmt"
	"strings"

	"boxoffice/pkg/logger"
)

// EmailService renders and delivers customer-facing booking emails.
type EmailService interface {
	SendTicketsIssued(ctx context.Context, event *BookingEvent) error
	SendBookingCancelled(ctx context.Context, event *BookingEvent) error
}

// logEmailService renders emails and writes them to the log instead of an
// SMTP relay. TODO: swap for a real SMTP sender once the venue gets a mail
// account provisioned.
type logEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() EmailService {
	return &logEmailService{log: logger.GetDefault()}
}

func (s *logEmailService) SendTicketsIssued(ctx context.Context, event *BookingEvent) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Your booking %s is confirmed.\n\nTickets:\n", event.BookingRef)
	for _, ticket := range event.Tickets {
		fmt.Fprintf(&body, "  %s  seat %s  %.2f\n", ticket.TicketCode, ticket.SeatCode, ticket.Price)
	}
	body.WriteString("\nPlease present a ticket code at the entrance.\n")

	s.log.Info("email sent",
		"subject", fmt.Sprintf("Booking confirmed: %s", event.BookingRef),
		"booking_id", event.BookingID,
		"body", body.String(),
	)
	return nil
}

func (s *logEmailService) SendBookingCancelled(ctx context.Context, event *BookingEvent) error {
	body := fmt.Sprintf(
		"Your booking %s has been cancelled.\nReason: %s\n\nAll tickets under this booking are no longer valid.\n",
		event.BookingRef, event.Reason,
	)

	s.log.Info("email sent",
		"subject", fmt.Sprintf("Booking cancelled: %s", event.BookingRef),
		"booking_id", event.BookingID,
		"body", body,
	)
	return nil
}
