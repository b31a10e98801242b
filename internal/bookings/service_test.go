package bookings

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/layouts"
	"boxoffice/internal/shows"
	"boxoffice/pkg/cache"
)

// fakeRepo reproduces the repository contract in memory: conflict rejection
// via errSeatTaken, per-date monotonic ticket sequences assigned under one
// internal lock, cancellation freeing seats without deleting rows.
type fakeRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	confirmed map[uuid.UUID]map[string]uuid.UUID // showID -> seatCode -> bookingID
	maxSeq    map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:  make(map[uuid.UUID]*Booking),
		confirmed: make(map[uuid.UUID]map[string]uuid.UUID),
		maxSeq:    make(map[string]int),
	}
}

func (f *fakeRepo) ConfirmedSeatCodes(_ context.Context, showID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	codes := make([]string, 0, len(f.confirmed[showID]))
	for code := range f.confirmed[showID] {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (f *fakeRepo) CreateBooking(_ context.Context, booking *Booking, serialDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	held := f.confirmed[booking.ShowID]
	for _, seat := range booking.Seats {
		if _, taken := held[seat.SeatCode]; taken {
			return errSeatTaken
		}
	}

	base := f.maxSeq[serialDate] + 1
	booking.Tickets = nil
	for i, seat := range booking.Seats {
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
	f.maxSeq[serialDate] = base + len(booking.Seats) - 1

	if held == nil {
		held = make(map[string]uuid.UUID)
		f.confirmed[booking.ShowID] = held
	}
	for _, seat := range booking.Seats {
		held[seat.SeatCode] = booking.ID
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) CancelBooking(_ context.Context, bookingID uuid.UUID, reason string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if booking.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	now := time.Now().UTC()
	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	for i := range booking.Seats {
		booking.Seats[i].Status = StatusCancelled
		delete(f.confirmed[booking.ShowID], booking.Seats[i].SeatCode)
	}
	for i := range booking.Tickets {
		booking.Tickets[i].Status = TicketRevoked
	}
	return booking, nil
}

func (f *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeRepo) GetBookingByRef(_ context.Context, ref string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, booking := range f.bookings {
		if booking.BookingRef == ref {
			return booking, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) ListBookingsByShow(_ context.Context, showID uuid.UUID) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, booking := range f.bookings {
		if booking.ShowID == showID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListTicketsByShow(_ context.Context, showID uuid.UUID) ([]Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Ticket
	for _, booking := range f.bookings {
		if booking.ShowID == showID {
			out = append(out, booking.Tickets...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNo < out[j].SequenceNo })
	return out, nil
}

func (f *fakeRepo) ConfirmedSeatCount(_ context.Context, showID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.confirmed[showID])), nil
}

// allTickets returns every ticket ever minted, including revoked ones.
func (f *fakeRepo) allTickets() []Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Ticket
	for _, booking := range f.bookings {
		out = append(out, booking.Tickets...)
	}
	return out
}

type fakeShowDir struct {
	mu    sync.Mutex
	shows map[uuid.UUID]*shows.Show
}

func newFakeShowDir(list ...*shows.Show) *fakeShowDir {
	dir := &fakeShowDir{shows: make(map[uuid.UUID]*shows.Show)}
	for _, show := range list {
		dir.shows[show.ID] = show
	}
	return dir
}

func (f *fakeShowDir) GetBookableShow(_ context.Context, id uuid.UUID) (*shows.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	show, ok := f.shows[id]
	if !ok {
		return nil, shows.ErrShowNotFound
	}
	if !show.Status.IsBookable() {
		return nil, shows.ErrShowNotBookable
	}
	copied := *show
	return &copied, nil
}

func (f *fakeShowDir) GetShow(_ context.Context, id string) (*shows.Show, error) {
	showID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	show, ok := f.shows[showID]
	if !ok {
		return nil, shows.ErrShowNotFound
	}
	copied := *show
	return &copied, nil
}

func (f *fakeShowDir) MarkHouseFull(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if show, ok := f.shows[id]; ok && show.Status == shows.StatusActive {
		show.Status = shows.StatusHouseFull
	}
	return nil
}

func (f *fakeShowDir) ReopenIfHouseFull(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if show, ok := f.shows[id]; ok && show.Status == shows.StatusHouseFull {
		show.Status = shows.StatusActive
	}
	return nil
}

func (f *fakeShowDir) status(id uuid.UUID) shows.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows[id].Status
}

type fakeLayoutDir struct {
	layouts map[uuid.UUID]*layouts.Layout
}

func (f *fakeLayoutDir) GetByID(_ context.Context, id uuid.UUID) (*layouts.Layout, error) {
	layout, ok := f.layouts[id]
	if !ok {
		return nil, layouts.ErrLayoutNotFound
	}
	return layout, nil
}

// passCache always misses and forwards to the fetcher.
type passCache struct{}

func (passCache) Get(context.Context, string, interface{}) error { return cache.ErrCacheMiss }
func (passCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (passCache) Delete(context.Context, string) error { return nil }
func (passCache) Ping(context.Context) error           { return nil }

func (passCache) GetOrSet(_ context.Context, _ string, _ time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func threeSeatLayout() *layouts.Layout {
	layoutID := uuid.New()
	return &layouts.Layout{
		ID:   layoutID,
		Name: "Studio",
		Sections: []layouts.Section{
			{ID: uuid.New(), LayoutID: layoutID, Name: "North", Rows: 1, SeatsPerRow: 3, Price: 250},
		},
	}
}

func showFor(layout *layouts.Layout, date time.Time) *shows.Show {
	return &shows.Show{
		ID:              uuid.New(),
		Title:           "Evening Show",
		Date:            date,
		StartAt:         date.Add(19 * time.Hour),
		DurationMinutes: 120,
		Price:           250,
		LayoutID:        layout.ID,
		Status:          shows.StatusActive,
	}
}

func newTestService(repo *fakeRepo, showDir *fakeShowDir, layout *layouts.Layout) Service {
	return NewService(
		repo,
		showDir,
		&fakeLayoutDir{layouts: map[uuid.UUID]*layouts.Layout{layout.ID: layout}},
		passCache{},
		nil,
		time.Second,
	)
}

func bookRequest(showID uuid.UUID, seats ...string) *BookSeatsRequest {
	return &BookSeatsRequest{ShowID: showID.String(), SeatCodes: seats}
}

var showDate = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func TestBookSeatsHappyPath(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	result, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA2"), "alice")
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, result.Tickets, 2)
	assert.Equal(t, "TKT-20250110-0001-NA1", result.Tickets[0].TicketCode)
	assert.Equal(t, "TKT-20250110-0002-NA2", result.Tickets[1].TicketCode)
	assert.Equal(t, 500.0, result.TotalPrice)

	booked, err := repo.ConfirmedSeatCodes(context.Background(), show.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"NA1", "NA2"}, booked)
}

func TestBookSeatsShowNotFound(t *testing.T) {
	layout := threeSeatLayout()
	svc := newTestService(newFakeRepo(), newFakeShowDir(), layout)

	_, err := svc.BookSeats(context.Background(), bookRequest(uuid.New(), "NA1"), "alice")
	assert.ErrorIs(t, err, shows.ErrShowNotFound)
}

func TestBookSeatsShowNotBookable(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	show.Status = shows.StatusShowStarted
	svc := newTestService(newFakeRepo(), newFakeShowDir(show), layout)

	_, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1"), "alice")
	assert.ErrorIs(t, err, shows.ErrShowNotBookable)
}

func TestBookSeatsUnknownSeat(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	svc := newTestService(newFakeRepo(), newFakeShowDir(show), layout)

	_, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "ZZ9"), "alice")
	assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestBookSeatsRejectsDuplicateCodes(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	svc := newTestService(newFakeRepo(), newFakeShowDir(show), layout)

	_, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA1"), "alice")
	assert.ErrorIs(t, err, ErrDuplicateSeats)
}

func TestBookSeatsRejectsEmptySeatSet(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	_, err := svc.BookSeats(context.Background(), bookRequest(show.ID), "alice")
	require.ErrorIs(t, err, ErrNoSeats)

	// A rejected request leaves nothing in the ledger.
	assert.Empty(t, repo.bookings)
	assert.Empty(t, repo.allTickets())
}

func TestBookSeatsNormalizesWhitespace(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	result, err := svc.BookSeats(context.Background(), bookRequest(show.ID, " NA1 ", "NA2"), "alice")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "NA1", result.Tickets[0].SeatCode)

	// A code that is nothing but whitespace is rejected, not silently dropped.
	_, err = svc.BookSeats(context.Background(), bookRequest(show.ID, "   "), "bob")
	assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestConcurrentDisjointBookingsBothSucceed(t *testing.T) {
	layoutID := uuid.New()
	layout := &layouts.Layout{
		ID:   layoutID,
		Name: "Main Hall",
		Sections: []layouts.Section{
			{ID: uuid.New(), LayoutID: layoutID, Name: "North", Rows: 2, SeatsPerRow: 5, Price: 200},
		},
	}
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	setA := []string{"NA1", "NA2", "NA3"}
	setB := []string{"NB1", "NB2"}

	var wg sync.WaitGroup
	results := make([]*BookingResult, 2)
	errs := make([]error, 2)

	for i, seats := range [][]string{setA, setB} {
		wg.Add(1)
		go func(i int, seats []string) {
			defer wg.Done()
			results[i], errs[i] = svc.BookSeats(context.Background(), bookRequest(show.ID, seats...), "alice")
		}(i, seats)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	booked, err := repo.ConfirmedSeatCodes(context.Background(), show.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, append(append([]string{}, setA...), setB...), booked)
}

func TestConcurrentOverlappingBookingsExactlyOneWins(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	setA := []string{"NA1", "NA2"}
	setB := []string{"NA2", "NA3"}

	var wg sync.WaitGroup
	results := make([]*BookingResult, 2)
	errs := make([]error, 2)

	for i, seats := range [][]string{setA, setB} {
		wg.Add(1)
		go func(i int, seats []string) {
			defer wg.Done()
			results[i], errs[i] = svc.BookSeats(context.Background(), bookRequest(show.ID, seats...), "alice")
		}(i, seats)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	winners := 0
	var loser *BookingResult
	for _, result := range results {
		if result.Success {
			winners++
		} else {
			loser = result
		}
	}
	require.Equal(t, 1, winners, "exactly one overlapping request may win")
	require.NotNil(t, loser)
	assert.Contains(t, loser.Conflicts, "NA2")
	assert.Empty(t, loser.Tickets, "losing request must issue no tickets")

	// Only the winner's seats are in the ledger.
	booked, err := repo.ConfirmedSeatCodes(context.Background(), show.ID)
	require.NoError(t, err)
	assert.Len(t, booked, 2)
}

func TestFullyBookedRequestReturnsAllConflicts(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	first, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA2"), "alice")
	require.NoError(t, err)
	require.True(t, first.Success)

	// Rejection is idempotent: same request again returns every code as a
	// conflict and creates nothing.
	for i := 0; i < 3; i++ {
		result, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA2"), "bob")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, []string{"NA1", "NA2"}, result.Conflicts)
	}

	assert.Len(t, repo.allTickets(), 2, "rejected requests must not mint tickets")
}

func TestTicketSequencesGapFreeAcrossShowsOnSameDate(t *testing.T) {
	layoutID := uuid.New()
	layout := &layouts.Layout{
		ID:   layoutID,
		Name: "Main Hall",
		Sections: []layouts.Section{
			{ID: uuid.New(), LayoutID: layoutID, Name: "North", Rows: 2, SeatsPerRow: 10, Price: 200},
		},
	}
	showA := showFor(layout, showDate)
	showB := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(showA, showB), layout)

	// Ten concurrent two-seat bookings spread over two shows on the same
	// calendar date.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		show := showA
		if i%2 == 1 {
			show = showB
		}
		seats := []string{
			layout.SeatCodes()[(i/2)*2],
			layout.SeatCodes()[(i/2)*2+1],
		}
		if i%2 == 1 {
			// Same codes are fine on the other show; the sequence is
			// shared across shows, the seats are not.
			seats = []string{
				layout.SeatCodes()[10+(i/2)*2],
				layout.SeatCodes()[10+(i/2)*2+1],
			}
		}
		wg.Add(1)
		go func(showID uuid.UUID, seats []string) {
			defer wg.Done()
			result, err := svc.BookSeats(context.Background(), bookRequest(showID, seats...), "alice")
			if assert.NoError(t, err) {
				assert.True(t, result.Success)
			}
		}(show.ID, seats)
	}
	wg.Wait()

	tickets := repo.allTickets()
	require.Len(t, tickets, 20)

	seqs := make([]int, 0, len(tickets))
	for _, ticket := range tickets {
		assert.Equal(t, "20250110", ticket.SerialDate)
		assert.Equal(t, FormatTicketCode(ticket.SerialDate, ticket.SequenceNo, ticket.SeatCode), ticket.TicketCode)
		seqs = append(seqs, ticket.SequenceNo)
	}
	sort.Ints(seqs)
	for i, seq := range seqs {
		assert.Equal(t, i+1, seq, "sequence numbers must be gap-free and duplicate-free")
	}
}

func TestCancelBookingFreesSeats(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)

	first, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA2"), "alice")
	require.NoError(t, err)
	require.True(t, first.Success)

	cancelled, err := svc.CancelBooking(context.Background(), first.BookingID.String(), "customer no-show")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	for _, ticket := range cancelled.Tickets {
		assert.Equal(t, TicketRevoked, ticket.Status)
	}

	// The freed seats book again.
	second, err := svc.BookSeats(context.Background(), bookRequest(show.ID, "NA1", "NA2"), "bob")
	require.NoError(t, err)
	assert.True(t, second.Success)

	// Cancelling twice is rejected.
	_, err = svc.CancelBooking(context.Background(), first.BookingID.String(), "again")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestScenarioConflictAndRetry(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)
	ctx := context.Background()

	alice, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA1", "NA2"), "alice")
	require.NoError(t, err)
	require.True(t, alice.Success)
	assert.Equal(t, "TKT-20250110-0001-NA1", alice.Tickets[0].TicketCode)
	assert.Equal(t, "TKT-20250110-0002-NA2", alice.Tickets[1].TicketCode)

	bob, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA2", "NA3"), "bob")
	require.NoError(t, err)
	assert.False(t, bob.Success)
	assert.Equal(t, []string{"NA2"}, bob.Conflicts)

	retry, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA3"), "bob")
	require.NoError(t, err)
	require.True(t, retry.Success)
	assert.Equal(t, "TKT-20250110-0003-NA3", retry.Tickets[0].TicketCode)

	// Cancelling the first booking frees NA1/NA2; the sequence keeps
	// counting because revoked tickets are never deleted.
	_, err = svc.CancelBooking(ctx, alice.BookingID.String(), "changed plans")
	require.NoError(t, err)

	rebook, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA1"), "bob")
	require.NoError(t, err)
	require.True(t, rebook.Success)
	assert.Equal(t, "TKT-20250110-0004-NA1", rebook.Tickets[0].TicketCode)
}

func TestHouseFullFlipAndReopen(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	showDir := newFakeShowDir(show)
	svc := newTestService(repo, showDir, layout)
	ctx := context.Background()

	result, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA1", "NA2", "NA3"), "alice")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, shows.StatusHouseFull, showDir.status(show.ID))

	// A full house rejects further bookings administratively.
	_, err = svc.BookSeats(ctx, bookRequest(show.ID, "NA1"), "bob")
	assert.ErrorIs(t, err, shows.ErrShowNotBookable)

	// Cancellation reopens the show.
	_, err = svc.CancelBooking(ctx, result.BookingID.String(), "refund")
	require.NoError(t, err)
	assert.Equal(t, shows.StatusActive, showDir.status(show.ID))
}

func TestSeatsBookedForShow(t *testing.T) {
	layout := threeSeatLayout()
	show := showFor(layout, showDate)
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeShowDir(show), layout)
	ctx := context.Background()

	_, err := svc.BookSeats(ctx, bookRequest(show.ID, "NA2"), "alice")
	require.NoError(t, err)

	availability, err := svc.SeatsBookedForShow(ctx, show.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, availability.TotalSeats)
	assert.Equal(t, []string{"NA2"}, availability.BookedSeats)
	assert.Equal(t, 2, availability.AvailableSeats)
}
