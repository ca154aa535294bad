package repository

import (
	"context"
	"fmt"

	"claim-triage-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ClaimRepository is the append-only claim ledger. Records are inserted once
// when an adjudication finalizes and never updated in place; promotion of an
// under-review claim happens in an external system against a new record.
type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = `
	id, policy_id, disaster_type, severity, confidence, detected_crop,
	computed_payout, settlement_amount, status, clause_citation,
	effective_fraud_risk, consistency_flags, image_url, lat, lng,
	rain_sum_7_days, max_temp_7_days, weather_source, ndvi, satellite_source,
	description, recommended_action, created_at`

// Append inserts a finalized claim record.
func (r *ClaimRepository) Append(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claim (` + claimColumns + `)
		VALUES (:id, :policy_id, :disaster_type, :severity, :confidence, :detected_crop,
		        :computed_payout, :settlement_amount, :status, :clause_citation,
		        :effective_fraud_risk, :consistency_flags, :image_url, :lat, :lng,
		        :rain_sum_7_days, :max_temp_7_days, :weather_source, :ndvi, :satellite_source,
		        :description, :recommended_action, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to append claim: %w", err)
	}

	return nil
}

// GetByID retrieves a claim by its ID
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	query := `SELECT ` + claimColumns + ` FROM claim WHERE id = $1`

	err := r.db.GetContext(ctx, &claim, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim by id: %w", err)
	}

	return &claim, nil
}

// GetByPolicyID retrieves claims for a policy, newest first
func (r *ClaimRepository) GetByPolicyID(ctx context.Context, policyID string) ([]models.Claim, error) {
	var claims []models.Claim
	query := `SELECT ` + claimColumns + ` FROM claim WHERE policy_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &claims, query, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims by policy id: %w", err)
	}

	return claims, nil
}

// GetAll retrieves all claims with optional filters
func (r *ClaimRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Claim, error) {
	var claims []models.Claim
	query := `SELECT ` + claimColumns + ` FROM claim WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if status, ok := filters["status"].(models.ClaimStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	if disasterType, ok := filters["disaster_type"].(models.DisasterType); ok {
		query += fmt.Sprintf(" AND disaster_type = $%d", argCount)
		args = append(args, disasterType)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	err := r.db.SelectContext(ctx, &claims, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	return claims, nil
}
