package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"boxoffice/internal/layouts"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

var (
	ErrShowNotFound      = errors.New("show not found")
	ErrShowNotBookable   = errors.New("show is not accepting bookings")
	ErrStaleStatus       = errors.New("show status changed concurrently")
	ErrInvalidTransition = errors.New("invalid show status transition")
	ErrShowHasBookings   = errors.New("show has existing bookings")
)

// CreateShowRequest is the admin payload for scheduling a show.
type CreateShowRequest struct {
	Title           string  `json:"title" validate:"required,min=2,max=200"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartAt         string  `json:"start_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=10,max=600"`
	Price           float64 `json:"price" validate:"min=0"`
	LayoutID        string  `json:"layout_id" validate:"required,uuid"`
}

type Service interface {
	CreateShow(ctx context.Context, req *CreateShowRequest) (*Show, error)
	GetShow(ctx context.Context, id string) (*Show, error)
	ListShows(ctx context.Context, filters ListFilters) ([]Show, error)
	UpdateShow(ctx context.Context, id string, req *CreateShowRequest) (*Show, error)
	DeleteShow(ctx context.Context, id string) error

	// GetBookableShow loads a show for the booking transaction, enforcing
	// existence and bookability.
	GetBookableShow(ctx context.Context, id uuid.UUID) (*Show, error)

	// MarkHouseFull flips ACTIVE to HOUSE_FULL after a booking fills the
	// last seat. A concurrent flip is not an error.
	MarkHouseFull(ctx context.Context, id uuid.UUID) error

	// ReopenIfHouseFull flips HOUSE_FULL back to ACTIVE after a
	// cancellation frees seats.
	ReopenIfHouseFull(ctx context.Context, id uuid.UUID) error

	// Transition applies an explicit admin status transition.
	Transition(ctx context.Context, id string, target Status) (*Show, error)

	// TransitionDue applies time-based transitions for all due shows.
	// Called by the Scheduler.
	TransitionDue(ctx context.Context, now time.Time) error
}

type service struct {
	repo       Repository
	layoutRepo layouts.Repository
	cache      cache.Service
	log        *logger.Logger
}

func NewService(repo Repository, layoutRepo layouts.Repository, cacheService cache.Service) Service {
	return &service{
		repo:       repo,
		layoutRepo: layoutRepo,
		cache:      cacheService,
		log:        logger.GetDefault(),
	}
}

func (s *service) CreateShow(ctx context.Context, req *CreateShowRequest) (*Show, error) {
	show, err := s.fromRequest(ctx, uuid.New(), req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	s.invalidateListCache(ctx)
	s.log.Info("show created", "show_id", show.ID, "title", show.Title, "date", show.SerialDate())
	return show, nil
}

func (s *service) GetShow(ctx context.Context, id string) (*Show, error) {
	showID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}
	return s.repo.GetByID(ctx, showID)
}

func (s *service) ListShows(ctx context.Context, filters ListFilters) ([]Show, error) {
	// Only the unfiltered listing is cached; filtered queries go straight
	// to the database.
	if filters.Status == "" && filters.Date == "" {
		var shows []Show
		err := s.cache.GetOrSet(ctx, constants.KeyShowList(), constants.TTLShowList, func() (interface{}, error) {
			return s.repo.List(ctx, filters)
		}, &shows)
		return shows, err
	}
	return s.repo.List(ctx, filters)
}

func (s *service) UpdateShow(ctx context.Context, id string, req *CreateShowRequest) (*Show, error) {
	showID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	updated, err := s.fromRequest(ctx, showID, req)
	if err != nil {
		return nil, err
	}
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt

	// Changing the layout under confirmed bookings would orphan booked
	// seat codes.
	if updated.LayoutID != existing.LayoutID {
		booked, err := s.repo.ConfirmedSeatCount(ctx, showID)
		if err != nil {
			return nil, fmt.Errorf("failed to check show bookings: %w", err)
		}
		if booked > 0 {
			return nil, ErrShowHasBookings
		}
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update show: %w", err)
	}

	s.invalidateListCache(ctx)
	return updated, nil
}

func (s *service) DeleteShow(ctx context.Context, id string) error {
	showID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid show ID: %w", err)
	}

	bookings, err := s.repo.BookingCount(ctx, showID)
	if err != nil {
		return fmt.Errorf("failed to check show bookings: %w", err)
	}
	if bookings > 0 {
		return ErrShowHasBookings
	}

	if err := s.repo.Delete(ctx, showID); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	s.log.Info("show deleted", "show_id", showID)
	return nil
}

func (s *service) GetBookableShow(ctx context.Context, id uuid.UUID) (*Show, error) {
	show, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !show.Status.IsBookable() {
		return nil, ErrShowNotBookable
	}
	return show, nil
}

func (s *service) MarkHouseFull(ctx context.Context, id uuid.UUID) error {
	err := s.repo.TransitionStatus(ctx, id, StatusActive, StatusHouseFull)
	if errors.Is(err, ErrStaleStatus) {
		// Someone else flipped it or the show already started.
		return nil
	}
	if err == nil {
		s.invalidateListCache(ctx)
		s.log.LogShowTransition(ctx, id.String(), string(StatusActive), string(StatusHouseFull))
	}
	return err
}

func (s *service) ReopenIfHouseFull(ctx context.Context, id uuid.UUID) error {
	err := s.repo.TransitionStatus(ctx, id, StatusHouseFull, StatusActive)
	if errors.Is(err, ErrStaleStatus) {
		return nil
	}
	if err == nil {
		s.invalidateListCache(ctx)
		s.log.LogShowTransition(ctx, id.String(), string(StatusHouseFull), string(StatusActive))
	}
	return err
}

func (s *service) Transition(ctx context.Context, id string, target Status) (*Show, error) {
	showID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID: %w", err)
	}
	if !target.IsValid() {
		return nil, ErrInvalidTransition
	}

	show, err := s.repo.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if !show.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, show.Status, target)
	}

	if err := s.repo.TransitionStatus(ctx, showID, show.Status, target); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.log.LogShowTransition(ctx, id, string(show.Status), string(target))

	show.Status = target
	return show, nil
}

func (s *service) TransitionDue(ctx context.Context, now time.Time) error {
	startDue, err := s.repo.ListStartDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list shows due to start: %w", err)
	}
	for i := range startDue {
		show := &startDue[i]
		if err := s.repo.TransitionStatus(ctx, show.ID, show.Status, StatusShowStarted); err != nil {
			if errors.Is(err, ErrStaleStatus) {
				continue
			}
			s.log.Warn("failed to start show", "show_id", show.ID, "error", err)
			continue
		}
		s.log.LogShowTransition(ctx, show.ID.String(), string(show.Status), string(StatusShowStarted))
	}

	doneDue, err := s.repo.ListDoneDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list shows due to finish: %w", err)
	}
	for i := range doneDue {
		show := &doneDue[i]
		if err := s.repo.TransitionStatus(ctx, show.ID, StatusShowStarted, StatusShowDone); err != nil {
			if errors.Is(err, ErrStaleStatus) {
				continue
			}
			s.log.Warn("failed to finish show", "show_id", show.ID, "error", err)
			continue
		}
		s.log.LogShowTransition(ctx, show.ID.String(), string(StatusShowStarted), string(StatusShowDone))
	}

	if len(startDue) > 0 || len(doneDue) > 0 {
		s.invalidateListCache(ctx)
	}
	return nil
}

func (s *service) fromRequest(ctx context.Context, id uuid.UUID, req *CreateShowRequest) (*Show, error) {
	layoutID, err := uuid.Parse(req.LayoutID)
	if err != nil {
		return nil, fmt.Errorf("invalid layout ID: %w", err)
	}
	if _, err := s.layoutRepo.GetByID(ctx, layoutID); err != nil {
		if errors.Is(err, layouts.ErrLayoutNotFound) {
			return nil, fmt.Errorf("layout %s does not exist", req.LayoutID)
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	return &Show{
		ID:              id,
		Title:           req.Title,
		Date:            date,
		StartAt:         startAt,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		LayoutID:        layoutID,
		Status:          StatusActive,
	}, nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.KeyShowList()); err != nil {
		s.log.Warn("failed to invalidate show list cache", "error", err)
	}
}
