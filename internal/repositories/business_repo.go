package repositories

import (
	"context"
	"errors"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BusinessProfileRepository interface {
	Upsert(ctx context.Context, profile *models.BusinessProfile) error
	Get(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error)
}

type businessRepo struct {
	db DB
}

func NewBusinessProfileRepo(db DB) BusinessProfileRepository {
	return &businessRepo{db: db}
}

func (r *businessRepo) Upsert(ctx context.Context, profile *models.BusinessProfile) error {
	query := `
		INSERT INTO business_profiles (account_id, name, address, city, state, pincode, phone, email, gstin, logo_object, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (account_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			pincode = EXCLUDED.pincode,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			gstin = EXCLUDED.gstin,
			logo_object = EXCLUDED.logo_object,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, profile.AccountID, profile.Name, profile.Address, profile.City, profile.State, profile.Pincode, profile.Phone, profile.Email, profile.GSTIN, profile.LogoObject)
	return err
}

func (r *businessRepo) Get(ctx context.Context, accountID uuid.UUID) (*models.BusinessProfile, error) {
	profile := &models.BusinessProfile{}
	query := `
		SELECT account_id, name, address, city, state, pincode, phone, email, gstin, logo_object, created_at, updated_at
		FROM business_profiles
		WHERE account_id = $1
	`
	err := r.db.QueryRow(ctx, query, accountID).Scan(&profile.AccountID, &profile.Name, &profile.Address, &profile.City, &profile.State, &profile.Pincode, &profile.Phone, &profile.Email, &profile.GSTIN, &profile.LogoObject, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}
