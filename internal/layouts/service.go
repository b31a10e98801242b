package layouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

var (
	ErrLayoutNotFound  = errors.New("layout not found")
	ErrLayoutNameTaken = errors.New("layout name already in use")
	ErrLayoutInUse     = errors.New("layout has shows with confirmed bookings")
)

// CreateLayoutRequest is the admin payload for creating or replacing a layout.
type CreateLayoutRequest struct {
	Name     string           `json:"name" validate:"required,min=2,max=100"`
	Sections []SectionRequest `json:"sections" validate:"required,min=1,dive"`
}

type SectionRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Rows        int     `json:"rows" validate:"required,min=1,max=26"`
	SeatsPerRow int     `json:"seats_per_row" validate:"required,min=1,max=200"`
	Price       float64 `json:"price" validate:"min=0"`
}

type Service interface {
	CreateLayout(ctx context.Context, req *CreateLayoutRequest) (*Layout, error)
	GetLayout(ctx context.Context, id string) (*Layout, error)
	ListLayouts(ctx context.Context) ([]Layout, error)
	UpdateLayout(ctx context.Context, id string, req *CreateLayoutRequest) (*Layout, error)
	DeleteLayout(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

func (s *service) CreateLayout(ctx context.Context, req *CreateLayoutRequest) (*Layout, error) {
	layout := fromRequest(uuid.New(), req)
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, layout.Name)
	if err != nil && !errors.Is(err, ErrLayoutNotFound) {
		return nil, fmt.Errorf("failed to check layout name: %w", err)
	}
	if existing != nil {
		return nil, ErrLayoutNameTaken
	}

	if err := s.repo.Create(ctx, layout); err != nil {
		return nil, fmt.Errorf("failed to create layout: %w", err)
	}

	s.log.Info("layout created", "layout_id", layout.ID, "name", layout.Name, "seats", layout.SeatCount())
	return layout, nil
}

func (s *service) GetLayout(ctx context.Context, id string) (*Layout, error) {
	layoutID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid layout ID: %w", err)
	}

	var layout Layout
	err = s.cache.GetOrSet(ctx, constants.KeyLayout(layoutID), constants.TTLLayout, func() (interface{}, error) {
		return s.repo.GetByID(ctx, layoutID)
	}, &layout)
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (s *service) ListLayouts(ctx context.Context) ([]Layout, error) {
	return s.repo.List(ctx)
}

// UpdateLayout replaces the layout definition. A layout whose shows already
// hold confirmed bookings is frozen: editing it could orphan booked seat
// codes.
func (s *service) UpdateLayout(ctx context.Context, id string, req *CreateLayoutRequest) (*Layout, error) {
	layoutID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid layout ID: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, layoutID); err != nil {
		return nil, err
	}

	booked, err := s.repo.ConfirmedSeatCount(ctx, layoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to check layout usage: %w", err)
	}
	if booked > 0 {
		return nil, ErrLayoutInUse
	}

	layout := fromRequest(layoutID, req)
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, layout); err != nil {
		return nil, fmt.Errorf("failed to update layout: %w", err)
	}

	if err := s.cache.Delete(ctx, constants.KeyLayout(layoutID)); err != nil {
		s.log.Warn("failed to invalidate layout cache", "layout_id", layoutID, "error", err)
	}

	s.log.Info("layout updated", "layout_id", layoutID, "name", layout.Name)
	return layout, nil
}

func (s *service) DeleteLayout(ctx context.Context, id string) error {
	layoutID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid layout ID: %w", err)
	}

	shows, err := s.repo.ShowCount(ctx, layoutID)
	if err != nil {
		return fmt.Errorf("failed to check layout usage: %w", err)
	}
	if shows > 0 {
		return ErrLayoutInUse
	}

	if err := s.repo.Delete(ctx, layoutID); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, constants.KeyLayout(layoutID)); err != nil {
		s.log.Warn("failed to invalidate layout cache", "layout_id", layoutID, "error", err)
	}

	s.log.Info("layout deleted", "layout_id", layoutID)
	return nil
}

func fromRequest(id uuid.UUID, req *CreateLayoutRequest) *Layout {
	layout := &Layout{
		ID:   id,
		Name: req.Name,
	}
	for _, sec := range req.Sections {
		layout.Sections = append(layout.Sections, Section{
			ID:          uuid.New(),
			LayoutID:    id,
			Name:        sec.Name,
			Rows:        sec.Rows,
			SeatsPerRow: sec.SeatsPerRow,
			Price:       sec.Price,
		})
	}
	return layout
}
