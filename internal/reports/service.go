package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	ShowReports(ctx context.Context) ([]ShowReport, error)
	DailySales(ctx context.Context, from, to string) ([]DailySales, error)
	Summary(ctx context.Context) (*Summary, error)

	// WriteBookingsCSV streams the per-show booking export.
	WriteBookingsCSV(ctx context.Context, showID string, w io.Writer) error

	// WriteDailySalesCSV streams the daily sales export.
	WriteDailySalesCSV(ctx context.Context, from, to string, w io.Writer) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ShowReports(ctx context.Context) ([]ShowReport, error) {
	return s.repo.ShowReports(ctx)
}

func (s *service) DailySales(ctx context.Context, from, to string) ([]DailySales, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.DailySales(ctx, from, to)
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *service) WriteBookingsCSV(ctx context.Context, showID string, w io.Writer) error {
	id, err := uuid.Parse(showID)
	if err != nil {
		return fmt.Errorf("invalid show ID: %w", err)
	}

	rows, err := s.repo.BookingExportRows(ctx, id)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"booking_ref", "seat_code", "ticket_code", "price", "status", "booked_by", "booked_at"}); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.BookingRef,
			row.SeatCode,
			row.TicketCode,
			strconv.FormatFloat(row.Price, 'f', 2, 64),
			row.Status,
			row.BookedBy,
			row.BookedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *service) WriteDailySalesCSV(ctx context.Context, from, to string, w io.Writer) error {
	sales, err := s.DailySales(ctx, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"serial_date", "tickets_issued", "tickets_active", "revenue", "first_sequence", "last_sequence"}); err != nil {
		return err
	}

	for _, day := range sales {
		record := []string{
			day.SerialDate,
			strconv.Itoa(day.TicketsIssued),
			strconv.Itoa(day.TicketsActive),
			strconv.FormatFloat(day.Revenue, 'f', 2, 64),
			strconv.Itoa(day.FirstSequence),
			strconv.Itoa(day.LastSequence),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// validateDateRange checks optional YYYYMMDD bounds.
func validateDateRange(from, to string) error {
	for _, value := range []string{from, to} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("20060102", value); err != nil {
			return fmt.Errorf("invalid serial date %q, expected YYYYMMDD", value)
		}
	}
	return nil
}
