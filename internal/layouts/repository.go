package layouts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, layout *Layout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Layout, error)
	GetByName(ctx context.Context, name string) (*Layout, error)
	List(ctx context.Context) ([]Layout, error)
	Replace(ctx context.Context, layout *Layout) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ConfirmedSeatCount counts CONFIRMED booking seats across all shows
	// referencing this layout. Used to guard edits against orphaning
	// already-booked seat codes.
	ConfirmedSeatCount(ctx context.Context, layoutID uuid.UUID) (int64, error)

	// ShowCount counts shows referencing this layout.
	ShowCount(ctx context.Context, layoutID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, layout *Layout) error {
	return r.db.WithContext(ctx).Create(layout).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Layout, error) {
	var layout Layout
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&layout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	return &layout, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Layout, error) {
	var layout Layout
	err := r.db.WithContext(ctx).First(&layout, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	return &layout, nil
}

func (r *repository) List(ctx context.Context) ([]Layout, error) {
	var layouts []Layout
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("created_at DESC").
		Find(&layouts).Error
	return layouts, err
}

// Replace rewrites the layout and its sections in one transaction. Callers
// must have checked the in-use guard first.
func (r *repository) Replace(ctx context.Context, layout *Layout) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Section{}, "layout_id = ?", layout.ID).Error; err != nil {
			return err
		}
		return tx.Save(layout).Error
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Section{}, "layout_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&Layout{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLayoutNotFound
		}
		return nil
	})
}

func (r *repository) ConfirmedSeatCount(ctx context.Context, layoutID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("booking_seats bs").
		Joins("JOIN shows s ON s.id = bs.show_id").
		Where("s.layout_id = ? AND bs.status = 'CONFIRMED'", layoutID).
		Count(&count).Error
	return count, err
}

func (r *repository) ShowCount(ctx context.Context, layoutID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("shows").
		Where("layout_id = ?", layoutID).
		Count(&count).Error
	return count, err
}
