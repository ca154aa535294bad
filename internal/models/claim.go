package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// CLAIM DECISION & LEDGER RECORD
// ============================================================================

// ConsistencyFlag marks one deterministic mismatch between the claimed peril
// and the ground-truth signals. Flags are advisory: they escalate the
// fraud-risk signal, they never auto-reject a claim.
type ConsistencyFlag string

const (
	FlagFloodWithoutRainfall  ConsistencyFlag = "flood_without_rainfall"
	FlagDroughtWithRainfall   ConsistencyFlag = "drought_with_rainfall"
	FlagStressClaimHealthyVeg ConsistencyFlag = "stress_claim_healthy_vegetation"
	FlagFloodHealthyVeg       ConsistencyFlag = "flood_healthy_vegetation"
)

// ClaimDecision is the engine's finalized output for one submission.
// ComputedPayout is always retained for audit; SettlementAmount is what is
// actually released, and is forced to 0 for any non-approved disposition.
type ClaimDecision struct {
	Status             ClaimStatus       `json:"status"`
	ComputedPayout     int64             `json:"computed_payout"`
	SettlementAmount   int64             `json:"settlement_amount"`
	ClauseCitation     string            `json:"clause_citation"`
	ConsistencyFlags   []ConsistencyFlag `json:"consistency_flags,omitempty"`
	EffectiveFraudRisk FraudRisk         `json:"effective_fraud_risk"`
}

// Claim is the persisted, append-only ledger record the caller derives from a
// ClaimDecision. Never updated in place.
type Claim struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	PolicyID           string       `json:"policy_id" db:"policy_id"`
	DisasterType       DisasterType `json:"disaster_type" db:"disaster_type"`
	Severity           int          `json:"severity" db:"severity"`
	Confidence         int          `json:"confidence" db:"confidence"`
	DetectedCrop       string       `json:"detected_crop" db:"detected_crop"`
	ComputedPayout     int64        `json:"computed_payout" db:"computed_payout"`
	SettlementAmount   int64        `json:"settlement_amount" db:"settlement_amount"`
	Status             ClaimStatus  `json:"status" db:"status"`
	ClauseCitation     string       `json:"clause_citation" db:"clause_citation"`
	EffectiveFraudRisk FraudRisk    `json:"effective_fraud_risk" db:"effective_fraud_risk"`
	ConsistencyFlags   string       `json:"consistency_flags" db:"consistency_flags"`
	ImageURL           *string      `json:"image_url,omitempty" db:"image_url"`
	Lat                float64      `json:"lat" db:"lat"`
	Lng                float64      `json:"lng" db:"lng"`
	RainSum7Days       float64      `json:"rain_sum_7_days" db:"rain_sum_7_days"`
	MaxTemp7Days       float64      `json:"max_temp_7_days" db:"max_temp_7_days"`
	WeatherSource      SignalSource `json:"weather_source" db:"weather_source"`
	NDVI               float64      `json:"ndvi" db:"ndvi"`
	SatelliteSource    SignalSource `json:"satellite_source" db:"satellite_source"`
	Description        string       `json:"description" db:"description"`
	RecommendedAction  string       `json:"recommended_action" db:"recommended_action"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
}
