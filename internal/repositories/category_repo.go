package repositories

import (
	"context"
	"errors"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, accountID uuid.UUID, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	List(ctx context.Context, accountID uuid.UUID) ([]*models.Category, error)
}

type categoryRepo struct {
	db DB
}

func NewCategoryRepo(db DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, account_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (account_id, name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.AccountID, category.Name, category.Description)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, account_id, name, description, created_at, updated_at
		FROM categories
		WHERE account_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, accountID, id).Scan(&category.ID, &category.AccountID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, accountID uuid.UUID, name string) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, account_id, name, description, created_at, updated_at
		FROM categories
		WHERE account_id = $1 AND name = $2
	`
	err := r.db.QueryRow(ctx, query, accountID, name).Scan(&category.ID, &category.AccountID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE account_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, category.Name, category.Description, category.AccountID, category.ID)
	return err
}

func (r *categoryRepo) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE account_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, accountID, id)
	return err
}

func (r *categoryRepo) List(ctx context.Context, accountID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, account_id, name, description, created_at, updated_at
		FROM categories
		WHERE account_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.AccountID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
