package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// ConfirmedSeatCodes returns the seat codes held by CONFIRMED bookings
	// for a show. This is the ledger the conflict check consults.
	ConfirmedSeatCodes(ctx context.Context, showID uuid.UUID) ([]string, error)

	// CreateBooking inserts the booking, its seat lines, and one ticket per
	// seat in a single transaction. Ticket sequence numbers are assigned
	// inside the transaction under a per-date advisory lock, so codes
	// minted for the same calendar date never collide even across shows.
	// Returns errSeatTaken when the confirmed-seat unique index rejects a
	// seat, leaving no partial rows behind.
	CreateBooking(ctx context.Context, booking *Booking, serialDate string) error

	// CancelBooking flips the booking and its seats to CANCELLED and its
	// tickets to REVOKED in one transaction. Rows are never deleted.
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*Booking, error)

	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	ListBookingsByShow(ctx context.Context, showID uuid.UUID) ([]Booking, error)
	ListTicketsByShow(ctx context.Context, showID uuid.UUID) ([]Ticket, error)
	ConfirmedSeatCount(ctx context.Context, showID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ConfirmedSeatCodes(ctx context.Context, showID uuid.UUID) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Where("show_id = ? AND status = ?", showID, StatusConfirmed).
		Order("seat_code ASC").
		Pluck("seat_code", &codes).Error
	return codes, err
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking, serialDate string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base, err := nextTicketSequence(tx, serialDate)
		if err != nil {
			return err
		}

		booking.Tickets = make([]Ticket, 0, len(booking.Seats))
		for i := range booking.Seats {
			seat := &booking.Seats[i]
			seq := base + i
			booking.Tickets = append(booking.Tickets, Ticket{
				ID:          uuid.New(),
				BookingID:   booking.ID,
				ShowID:      booking.ShowID,
				SeatCode:    seat.SeatCode,
				TicketCode:  FormatTicketCode(serialDate, seq, seat.SeatCode),
				SerialDate:  serialDate,
				SequenceNo:  seq,
				Price:       seat.Price,
				GeneratedBy: booking.BookedBy,
				Status:      TicketActive,
			})
		}

		if err := tx.Create(booking).Error; err != nil {
			if isConfirmedSeatViolation(err) {
				return errSeatTaken
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// nextTicketSequence computes MAX(sequence_no)+1 for the date under a
// transaction-scoped advisory lock. The lock is keyed by the serial date and
// released automatically at commit or rollback, so two transactions minting
// tickets for the same date, even for different shows, cannot read the same
// base.
func nextTicketSequence(tx *gorm.DB, serialDate string) (int, error) {
	if err := tx.Exec(
		"SELECT pg_advisory_xact_lock(hashtext(?))",
		"ticket-seq:"+serialDate,
	).Error; err != nil {
		return 0, fmt.Errorf("failed to acquire ticket sequence lock: %w", err)
	}

	var max int
	err := tx.Model(&Ticket{}).
		Where("serial_date = ?", serialDate).
		Select("COALESCE(MAX(sequence_no), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read ticket sequence: %w", err)
	}
	return max + 1, nil
}

// isConfirmedSeatViolation detects the partial unique index guarding
// (show_id, seat_code) on confirmed seats. That index is the cross-process
// backstop behind the in-process show lock.
func isConfirmedSeatViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "unique_confirmed_seat_per_show")
}

func (r *repository) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the booking keeps two concurrent cancellations from
		// both passing the already-cancelled check.
		err := tx.Preload("Seats").Preload("Tickets").
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "bookings"}}).
			First(&booking, "id = ?", bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}

		now := time.Now().UTC()
		if err := tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":        StatusCancelled,
				"cancelled_at":  now,
				"cancel_reason": reason,
			}).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		// Flipping seat status frees the codes: the partial unique index
		// and the conflict check only see CONFIRMED rows.
		if err := tx.Model(&BookingSeat{}).
			Where("booking_id = ?", bookingID).
			Update("status", StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to release seats: %w", err)
		}

		if err := tx.Model(&Ticket{}).
			Where("booking_id = ?", bookingID).
			Update("status", TicketRevoked).Error; err != nil {
			return fmt.Errorf("failed to revoke tickets: %w", err)
		}

		booking.Status = StatusCancelled
		booking.CancelledAt = &now
		booking.CancelReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Tickets").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Tickets").
		First(&booking, "booking_ref = ?", ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListBookingsByShow(ctx context.Context, showID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("show_id = ?", showID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListTicketsByShow(ctx context.Context, showID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("sequence_no ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) ConfirmedSeatCount(ctx context.Context, showID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Where("show_id = ? AND status = ?", showID, StatusConfirmed).
		Count(&count).Error
	return count, err
}
