package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is strictly read-only: it aggregates over bookings, tickets,
// and shows and never touches the booking transaction's write path.
type Repository interface {
	ShowReports(ctx context.Context) ([]ShowReport, error)
	DailySales(ctx context.Context, from, to string) ([]DailySales, error)
	Summary(ctx context.Context) (*Summary, error)
	BookingExportRows(ctx context.Context, showID uuid.UUID) ([]BookingExportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ShowReports(ctx context.Context) ([]ShowReport, error) {
	var reports []ShowReport

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id AS show_id,
			s.title,
			s.date,
			s.status,
			COALESCE(cap.total_seats, 0) AS total_seats,
			COALESCE(sold.seats_sold, 0) AS seats_sold,
			CASE WHEN COALESCE(cap.total_seats, 0) > 0
				THEN COALESCE(sold.seats_sold, 0)::float / cap.total_seats * 100
				ELSE 0
			END AS occupancy_percent,
			COALESCE(rev.revenue, 0) AS revenue,
			COALESCE(bk.bookings, 0) AS bookings,
			COALESCE(bk.cancellations, 0) AS cancellations
		FROM shows s
		LEFT JOIN (
			SELECT l.id AS layout_id, SUM(ls.rows * ls.seats_per_row) AS total_seats
			FROM layouts l
			JOIN layout_sections ls ON ls.layout_id = l.id
			GROUP BY l.id
		) cap ON cap.layout_id = s.layout_id
		LEFT JOIN (
			SELECT show_id, COUNT(*) AS seats_sold
			FROM booking_seats
			WHERE status = 'CONFIRMED'
			GROUP BY show_id
		) sold ON sold.show_id = s.id
		LEFT JOIN (
			SELECT show_id, SUM(total_price) AS revenue
			FROM bookings
			WHERE status = 'CONFIRMED'
			GROUP BY show_id
		) rev ON rev.show_id = s.id
		LEFT JOIN (
			SELECT show_id,
				COUNT(*) AS bookings,
				COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancellations
			FROM bookings
			GROUP BY show_id
		) bk ON bk.show_id = s.id
		ORDER BY s.date DESC, s.start_at DESC
	`).Scan(&reports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to build show reports: %w", err)
	}
	return reports, nil
}

func (r *repository) DailySales(ctx context.Context, from, to string) ([]DailySales, error) {
	var sales []DailySales

	query := `
		SELECT
			serial_date,
			COUNT(*) AS tickets_issued,
			COUNT(*) FILTER (WHERE status = 'ACTIVE') AS tickets_active,
			COALESCE(SUM(price) FILTER (WHERE status <> 'REVOKED'), 0) AS revenue,
			MIN(sequence_no) AS first_sequence,
			MAX(sequence_no) AS last_sequence
		FROM tickets
		WHERE (? = '' OR serial_date >= ?)
		  AND (? = '' OR serial_date <= ?)
		GROUP BY serial_date
		ORDER BY serial_date DESC
	`

	err := r.db.WithContext(ctx).Raw(query, from, from, to, to).Scan(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build daily sales: %w", err)
	}
	return sales, nil
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary

	var totalShows int64
	if err := r.db.WithContext(ctx).Table("shows").Count(&totalShows).Error; err != nil {
		return nil, fmt.Errorf("failed to count shows: %w", err)
	}
	summary.TotalShows = int(totalShows)

	var totalBookings, cancelled int64
	if err := r.db.WithContext(ctx).Table("bookings").Count(&totalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", "CANCELLED").
		Count(&cancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to count cancellations: %w", err)
	}
	summary.TotalBookings = int(totalBookings)
	if totalBookings > 0 {
		summary.CancellationRate = float64(cancelled) / float64(totalBookings) * 100
	}

	var totalTickets int64
	if err := r.db.WithContext(ctx).Table("tickets").Count(&totalTickets).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	summary.TotalTickets = int(totalTickets)

	if err := r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", "CONFIRMED").
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&summary.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to calculate revenue: %w", err)
	}

	return &summary, nil
}

func (r *repository) BookingExportRows(ctx context.Context, showID uuid.UUID) ([]BookingExportRow, error) {
	var rows []BookingExportRow

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.booking_ref,
			t.seat_code,
			t.ticket_code,
			t.price,
			t.status,
			b.booked_by,
			b.created_at AS booked_at
		FROM tickets t
		JOIN bookings b ON b.id = t.booking_id
		WHERE t.show_id = ?
		ORDER BY t.sequence_no ASC
	`, showID).Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to build booking export: %w", err)
	}
	return rows, nil
}
