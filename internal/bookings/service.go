package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/layouts"
	"boxoffice/internal/shared/constants"
	"boxoffice/internal/shows"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

// ShowDirectory is the slice of the shows service the booking transaction
// needs: admission control and opportunistic occupancy transitions.
type ShowDirectory interface {
	GetBookableShow(ctx context.Context, id uuid.UUID) (*shows.Show, error)
	GetShow(ctx context.Context, id string) (*shows.Show, error)
	MarkHouseFull(ctx context.Context, id uuid.UUID) error
	ReopenIfHouseFull(ctx context.Context, id uuid.UUID) error
}

// LayoutDirectory resolves a show's layout for seat validation and pricing.
type LayoutDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*layouts.Layout, error)
}

// Notifier publishes booking lifecycle events. Publishing is best effort and
// never fails a committed booking.
type Notifier interface {
	TicketsIssued(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking, reason string)
}

type Service interface {
	// BookSeats is the atomic booking transaction: all requested seats are
	// admitted or none are. Conflicts against confirmed bookings come back
	// as a structured negative result, not an error.
	BookSeats(ctx context.Context, req *BookSeatsRequest, bookedBy string) (*BookingResult, error)

	// SeatsBookedForShow is the read side of the ledger.
	SeatsBookedForShow(ctx context.Context, showID string) (*SeatAvailability, error)

	// CancelBooking flips a booking to CANCELLED, revokes its tickets, and
	// frees its seats for rebooking.
	CancelBooking(ctx context.Context, bookingID, reason string) (*Booking, error)

	GetBooking(ctx context.Context, bookingID string) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	ListBookingsForShow(ctx context.Context, showID string) ([]Booking, error)
	ListTicketsForShow(ctx context.Context, showID string) ([]Ticket, error)
}

type service struct {
	repo        Repository
	shows       ShowDirectory
	layouts     LayoutDirectory
	cache       cache.Service
	notifier    Notifier
	locks       *ShowLocks
	lockTimeout time.Duration
	log         *logger.Logger
}

func NewService(
	repo Repository,
	showDir ShowDirectory,
	layoutDir LayoutDirectory,
	cacheService cache.Service,
	notifier Notifier,
	lockTimeout time.Duration,
) Service {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &service{
		repo:        repo,
		shows:       showDir,
		layouts:     layoutDir,
		cache:       cacheService,
		notifier:    notifier,
		locks:       NewShowLocks(),
		lockTimeout: lockTimeout,
		log:         logger.GetDefault(),
	}
}

func (s *service) BookSeats(ctx context.Context, req *BookSeatsRequest, bookedBy string) (*BookingResult, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}

	seatCodes, err := normalizeSeatCodes(req.SeatCodes)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer ID: %w", err)
		}
		customerID = &id
	}

	// Serialize per show. The conflict check and the insert below must not
	// interleave with another transaction for the same show.
	release, err := s.locks.Acquire(ctx, showID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	show, err := s.shows.GetBookableShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	layout, err := s.layouts.GetByID(ctx, show.LayoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show layout: %w", err)
	}

	prices := layout.SeatPrices()
	for _, code := range seatCodes {
		if _, ok := prices[code]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSeat, code)
		}
	}

	confirmed, err := s.repo.ConfirmedSeatCodes(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking ledger: %w", err)
	}

	if conflicts := intersect(seatCodes, confirmed); len(conflicts) > 0 {
		s.log.LogBookingConflict(ctx, showID.String(), conflicts)
		return &BookingResult{
			Success:   false,
			Conflicts: conflicts,
			SeatCount: len(seatCodes),
		}, nil
	}

	booking := s.buildBooking(show, seatCodes, prices, bookedBy, customerID)

	if err := s.repo.CreateBooking(ctx, booking, show.SerialDate()); err != nil {
		if errors.Is(err, errSeatTaken) {
			// The unique index caught a write from outside this process.
			// Re-read the ledger so the conflicts reported are accurate.
			confirmed, lerr := s.repo.ConfirmedSeatCodes(ctx, showID)
			if lerr != nil {
				confirmed = seatCodes
			}
			conflicts := intersect(seatCodes, confirmed)
			if len(conflicts) == 0 {
				conflicts = seatCodes
			}
			s.log.LogBookingConflict(ctx, showID.String(), conflicts)
			return &BookingResult{
				Success:   false,
				Conflicts: conflicts,
				SeatCount: len(seatCodes),
			}, nil
		}
		return nil, fmt.Errorf("booking transaction failed: %w", err)
	}

	s.invalidateAvailability(ctx, showID)
	s.checkHouseFull(ctx, show, layout)

	if s.notifier != nil {
		s.notifier.TicketsIssued(ctx, booking)
	}
	s.log.LogBookingConfirmed(ctx, booking.ID.String(), showID.String(), bookedBy, len(seatCodes))

	result := &BookingResult{
		Success:    true,
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		SeatCount:  len(seatCodes),
		TotalPrice: booking.TotalPrice,
		Tickets:    make([]IssuedTicket, 0, len(booking.Tickets)),
	}
	for _, ticket := range booking.Tickets {
		result.Tickets = append(result.Tickets, IssuedTicket{
			TicketCode: ticket.TicketCode,
			SeatCode:   ticket.SeatCode,
			Price:      ticket.Price,
		})
	}
	return result, nil
}

func (s *service) buildBooking(show *shows.Show, seatCodes []string, prices map[string]float64, bookedBy string, customerID *uuid.UUID) *Booking {
	booking := &Booking{
		ID:         uuid.New(),
		BookingRef: NewBookingRef(),
		ShowID:     show.ID,
		CustomerID: customerID,
		BookedBy:   bookedBy,
		Status:     StatusConfirmed,
		TotalSeats: len(seatCodes),
	}

	for _, code := range seatCodes {
		price := prices[code]
		if price == 0 {
			price = show.Price
		}
		booking.Seats = append(booking.Seats, BookingSeat{
			ID:        uuid.New(),
			BookingID: booking.ID,
			ShowID:    show.ID,
			SeatCode:  code,
			Price:     price,
			Status:    StatusConfirmed,
		})
		booking.TotalPrice += price
	}
	return booking
}

func (s *service) SeatsBookedForShow(ctx context.Context, showID string) (*SeatAvailability, error) {
	show, err := s.shows.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	layout, err := s.layouts.GetByID(ctx, show.LayoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show layout: %w", err)
	}

	var booked []string
	err = s.cache.GetOrSet(ctx, constants.KeyShowSeatAvailability(show.ID), constants.TTLSeatAvailability, func() (interface{}, error) {
		return s.repo.ConfirmedSeatCodes(ctx, show.ID)
	}, &booked)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking ledger: %w", err)
	}

	total := layout.SeatCount()
	return &SeatAvailability{
		ShowID:         show.ID,
		TotalSeats:     total,
		BookedSeats:    booked,
		AvailableSeats: total - len(booked),
	}, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID, reason string) (*Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.repo.CancelBooking(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, booking.ShowID)

	// A cancellation may free seats in a full house.
	if err := s.shows.ReopenIfHouseFull(ctx, booking.ShowID); err != nil {
		s.log.Warn("failed to reopen show after cancellation", "show_id", booking.ShowID, "error", err)
	}

	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking, reason)
	}
	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.ShowID.String(), reason)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}
	return s.repo.GetBookingByID(ctx, id)
}

func (s *service) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	return s.repo.GetBookingByRef(ctx, ref)
}

func (s *service) ListBookingsForShow(ctx context.Context, showID string) ([]Booking, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}
	return s.repo.ListBookingsByShow(ctx, id)
}

func (s *service) ListTicketsForShow(ctx context.Context, showID string) ([]Ticket, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}
	return s.repo.ListTicketsByShow(ctx, id)
}

// checkHouseFull flips ACTIVE to HOUSE_FULL once every layout seat holds a
// confirmed booking. Best effort: a failed check never unwinds a committed
// booking.
func (s *service) checkHouseFull(ctx context.Context, show *shows.Show, layout *layouts.Layout) {
	count, err := s.repo.ConfirmedSeatCount(ctx, show.ID)
	if err != nil {
		s.log.Warn("house-full check failed", "show_id", show.ID, "error", err)
		return
	}
	if count >= int64(layout.SeatCount()) {
		if err := s.shows.MarkHouseFull(ctx, show.ID); err != nil {
			s.log.Warn("failed to mark show house full", "show_id", show.ID, "error", err)
		}
	}
}

func (s *service) invalidateAvailability(ctx context.Context, showID uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.KeyShowSeatAvailability(showID)); err != nil {
		s.log.Warn("failed to invalidate seat availability cache", "show_id", showID, "error", err)
	}
}

// normalizeSeatCodes trims the request codes and rejects empty sets, blank
// codes, and duplicates. Order is preserved: ticket sequence numbers follow
// request order.
func normalizeSeatCodes(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, ErrNoSeats
	}

	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			return nil, fmt.Errorf("%w: blank seat code", ErrUnknownSeat)
		}
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeats, code)
		}
		seen[code] = true
		out = append(out, code)
	}
	return out, nil
}

// intersect returns the requested codes present in the confirmed set,
// preserving request order.
func intersect(requested, confirmed []string) []string {
	held := make(map[string]bool, len(confirmed))
	for _, code := range confirmed {
		held[code] = true
	}
	var conflicts []string
	for _, code := range requested {
		if held[code] {
			conflicts = append(conflicts, code)
		}
	}
	return conflicts
}
