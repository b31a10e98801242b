package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, search string) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error

	// Delete removes the customer and detaches their bookings in one
	// transaction: booking rows keep their history with customer_id set
	// to NULL, never a cascade delete.
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, customer *Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var customer Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, search string) ([]Customer, error) {
	var customers []Customer
	query := r.db.WithContext(ctx).Model(&Customer{})

	if search != "" {
		pattern := fmt.Sprintf("%%%s%%", search)
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	err := query.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *repository) Update(ctx context.Context, customer *Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("bookings").
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach bookings: %w", err)
		}

		result := tx.Delete(&Customer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCustomerNotFound
		}
		return nil
	})
}
