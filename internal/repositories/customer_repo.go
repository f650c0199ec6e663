package repositories

import (
	"context"
	"errors"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Customer, error)
	GetByPhone(ctx context.Context, accountID uuid.UUID, phone string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Customer, error)
}

type customerRepo struct {
	db DB
}

func NewCustomerRepo(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, account_id, name, phone, address, gstin, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(&customer.ID, &customer.AccountID, &customer.Name, &customer.Phone, &customer.Address, &customer.GSTIN, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, account_id, name, phone, address, gstin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.AccountID, customer.Name, customer.Phone, customer.Address, customer.GSTIN)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE account_id = $1 AND id = $2
	`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, accountID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return customer, err
}

// GetByPhone looks up a returning customer so repeat sales reuse one row
// instead of creating a duplicate per visit.
func (r *customerRepo) GetByPhone(ctx context.Context, accountID uuid.UUID, phone string) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE account_id = $1 AND phone = $2
	`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, accountID, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return customer, err
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, gstin = $4, updated_at = NOW()
		WHERE account_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, customer.Name, customer.Phone, customer.Address, customer.GSTIN, customer.AccountID, customer.ID)
	return err
}

func (r *customerRepo) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE account_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
