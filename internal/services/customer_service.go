package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kiranapos/internal/billing"
	"kiranapos/internal/common"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	Create(ctx context.Context, accountID uuid.UUID, customer *models.Customer) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Customer, error)
	// GetOrCreateByPhone reuses the existing record for a returning
	// customer, matching on phone within the account.
	GetOrCreateByPhone(ctx context.Context, accountID uuid.UUID, name, phone string) (*models.Customer, error)
	Update(ctx context.Context, accountID uuid.UUID, customer *models.Customer) error
	List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) validate(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return errors.New("customer name is required")
	}
	if err := common.ValidatePhone(customer.Phone, "phone"); err != nil {
		return err
	}
	if customer.GSTIN != nil && strings.TrimSpace(*customer.GSTIN) != "" {
		if err := common.ValidateGSTIN(*customer.GSTIN, "gstin"); err != nil {
			return err
		}
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, accountID uuid.UUID, customer *models.Customer) error {
	if err := s.validate(customer); err != nil {
		return err
	}
	customer.AccountID = accountID
	customer.ID = uuid.New()
	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func (s *customerService) GetOrCreateByPhone(ctx context.Context, accountID uuid.UUID, name, phone string) (*models.Customer, error) {
	customer := &models.Customer{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
	// A partial attachment is a caller mistake, not a server fault.
	if err := s.validate(customer); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrInvalidCustomer, err)
	}

	existing, err := s.customerRepo.GetByPhone(ctx, accountID, customer.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	customer.AccountID = accountID
	customer.ID = uuid.New()
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, accountID uuid.UUID, customer *models.Customer) error {
	if err := s.validate(customer); err != nil {
		return err
	}
	customer.AccountID = accountID
	existing, err := s.customerRepo.GetByID(ctx, accountID, customer.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCustomerNotFound
	}
	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.customerRepo.List(ctx, accountID, limit, offset)
}
