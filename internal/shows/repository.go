package shows

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, show *Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	List(ctx context.Context, filters ListFilters) ([]Show, error)
	Update(ctx context.Context, show *Show) error
	Delete(ctx context.Context, id uuid.UUID) error

	// TransitionStatus performs a compare-and-set status update. Returns
	// ErrStaleStatus when the row no longer holds the expected status, so
	// concurrent transition attempts never double-apply.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) error

	// ListStartDue returns bookable shows whose start time has passed.
	ListStartDue(ctx context.Context, now time.Time) ([]Show, error)

	// ListDoneDue returns started shows whose end time has passed.
	ListDoneDue(ctx context.Context, now time.Time) ([]Show, error)

	// ConfirmedSeatCount counts CONFIRMED booking seats for a show.
	ConfirmedSeatCount(ctx context.Context, showID uuid.UUID) (int64, error)

	// BookingCount counts bookings of any status for a show.
	BookingCount(ctx context.Context, showID uuid.UUID) (int64, error)
}

// ListFilters narrows show listings.
type ListFilters struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE HOUSE_FULL SHOW_STARTED SHOW_DONE"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, show *Show) error {
	return r.db.WithContext(ctx).Create(show).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).First(&show, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Show, error) {
	var shows []Show
	query := r.db.WithContext(ctx).Model(&Show{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Date != "" {
		query = query.Where("date = ?", filters.Date)
	}

	err := query.Order("start_at ASC").Find(&shows).Error
	return shows, err
}

func (r *repository) Update(ctx context.Context, show *Show) error {
	return r.db.WithContext(ctx).Save(show).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Show{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShowNotFound
	}
	return nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	result := r.db.WithContext(ctx).Model(&Show{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *repository) ListStartDue(ctx context.Context, now time.Time) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("status IN ? AND start_at <= ?", []Status{StatusActive, StatusHouseFull}, now).
		Find(&shows).Error
	return shows, err
}

func (r *repository) ListDoneDue(ctx context.Context, now time.Time) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_at + (duration_minutes * interval '1 minute') <= ?", StatusShowStarted, now).
		Find(&shows).Error
	return shows, err
}

func (r *repository) ConfirmedSeatCount(ctx context.Context, showID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("booking_seats").
		Where("show_id = ? AND status = 'CONFIRMED'", showID).
		Count(&count).Error
	return count, err
}

func (r *repository) BookingCount(ctx context.Context, showID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("bookings").
		Where("show_id = ?", showID).
		Count(&count).Error
	return count, err
}
