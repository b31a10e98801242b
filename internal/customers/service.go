package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"boxoffice/pkg/logger"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRequest is the payload for creating or updating a customer.
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,min=6,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type Service interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context, search string) ([]Customer, error)
	UpdateCustomer(ctx context.Context, id string, req *CustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error) {
	customer := &Customer{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.log.Info("customer created", "customer_id", customer.ID, "name", customer.Name)
	return customer, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID: %w", err)
	}
	return s.repo.GetByID(ctx, customerID)
}

func (s *service) ListCustomers(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, search)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req *CustomerRequest) (*Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID: %w", err)
	}

	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer ID: %w", err)
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		return err
	}

	s.log.Info("customer deleted, bookings detached", "customer_id", customerID)
	return nil
}
