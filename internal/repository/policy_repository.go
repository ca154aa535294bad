package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"claim-triage-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// ErrPolicyNotFound is returned when no policy exists for an id. The engine
// must never be invoked without a resolved policy, so callers fail fast on it.
var ErrPolicyNotFound = errors.New("policy not found")

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// GetByID retrieves a policy by its ID
func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*models.Policy, error) {
	var policy models.Policy
	query := `
		SELECT id, farmer_name, land_parcel_id, crop_type, season, acres,
		       sum_insured, premium_paid, implementing_agency, location_label,
		       location, registry_status, created_at
		FROM policy
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &policy, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy by id: %w", err)
	}

	return &policy, nil
}

// GetAll retrieves all policies ordered by creation time
func (r *PolicyRepository) GetAll(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	query := `
		SELECT id, farmer_name, land_parcel_id, crop_type, season, acres,
		       sum_insured, premium_paid, implementing_agency, location_label,
		       location, registry_status, created_at
		FROM policy
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &policies, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get policies: %w", err)
	}

	return policies, nil
}

// GetByFarmerName retrieves all policies held by a farmer
func (r *PolicyRepository) GetByFarmerName(ctx context.Context, farmerName string) ([]models.Policy, error) {
	var policies []models.Policy
	query := `
		SELECT id, farmer_name, land_parcel_id, crop_type, season, acres,
		       sum_insured, premium_paid, implementing_agency, location_label,
		       location, registry_status, created_at
		FROM policy
		WHERE farmer_name = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &policies, query, farmerName)
	if err != nil {
		return nil, fmt.Errorf("failed to get policies by farmer: %w", err)
	}

	return policies, nil
}
