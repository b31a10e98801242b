package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	exportRows []BookingExportRow
	sales      []DailySales

	lastFrom string
	lastTo   string
}

func (f *fakeRepo) ShowReports(ctx context.Context) ([]ShowReport, error) { return nil, nil }

func (f *fakeRepo) DailySales(ctx context.Context, from, to string) ([]DailySales, error) {
	f.lastFrom, f.lastTo = from, to
	return f.sales, nil
}

func (f *fakeRepo) Summary(ctx context.Context) (*Summary, error) { return &Summary{}, nil }

func (f *fakeRepo) BookingExportRows(ctx context.Context, showID uuid.UUID) ([]BookingExportRow, error) {
	return f.exportRows, nil
}

func TestWriteBookingsCSV(t *testing.T) {
	bookedAt := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	repo := &fakeRepo{
		exportRows: []BookingExportRow{
			{
				BookingRef: "BKG-1A2B3C4D",
				SeatCode:   "NA1",
				TicketCode: "TKT-20250110-0001-NA1",
				Price:      250,
				Status:     "ACTIVE",
				BookedBy:   "alice@venue.test",
				BookedAt:   bookedAt,
			},
			{
				BookingRef: "BKG-1A2B3C4D",
				SeatCode:   "NA2",
				TicketCode: "TKT-20250110-0002-NA2",
				Price:      250,
				Status:     "ACTIVE",
				BookedBy:   "alice@venue.test",
				BookedAt:   bookedAt,
			},
		},
	}
	svc := NewService(repo)

	var buf bytes.Buffer
	err := svc.WriteBookingsCSV(context.Background(), uuid.New().String(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"booking_ref", "seat_code", "ticket_code", "price", "status", "booked_by", "booked_at"}, records[0])
	assert.Equal(t, []string{
		"BKG-1A2B3C4D", "NA1", "TKT-20250110-0001-NA1", "250.00",
		"ACTIVE", "alice@venue.test", "2025-01-10T14:30:00Z",
	}, records[1])
	assert.Equal(t, "TKT-20250110-0002-NA2", records[2][2])
}

func TestWriteBookingsCSVRejectsBadShowID(t *testing.T) {
	svc := NewService(&fakeRepo{})

	var buf bytes.Buffer
	err := svc.WriteBookingsCSV(context.Background(), "not-a-uuid", &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteDailySalesCSV(t *testing.T) {
	repo := &fakeRepo{
		sales: []DailySales{
			{SerialDate: "20250110", TicketsIssued: 4, TicketsActive: 3, Revenue: 1000, FirstSequence: 1, LastSequence: 4},
			{SerialDate: "20250111", TicketsIssued: 2, TicketsActive: 2, Revenue: 500, FirstSequence: 1, LastSequence: 2},
		},
	}
	svc := NewService(repo)

	var buf bytes.Buffer
	err := svc.WriteDailySalesCSV(context.Background(), "20250110", "20250111", &buf)
	require.NoError(t, err)

	assert.Equal(t, "20250110", repo.lastFrom)
	assert.Equal(t, "20250111", repo.lastTo)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"20250110", "4", "3", "1000.00", "1", "4"}, records[1])
	assert.Equal(t, []string{"20250111", "2", "2", "500.00", "1", "2"}, records[2])
}

func TestDailySalesRejectsMalformedDates(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.DailySales(context.Background(), "2025-01-10", "")
	require.Error(t, err)

	_, err = svc.DailySales(context.Background(), "", "January")
	require.Error(t, err)

	// Empty bounds mean an unbounded range.
	_, err = svc.DailySales(context.Background(), "", "")
	require.NoError(t, err)
}
