package event

import (
	"time"

	"claim-triage-service/internal/models"
)

// ClaimDecidedEvent is published after an adjudication finalizes. Consumers
// (notification service, settlement ledger) receive the terminal disposition
// and the amounts; the audit trail stays in the claim record.
type ClaimDecidedEvent struct {
	ClaimID          string              `json:"claim_id"`
	PolicyID         string              `json:"policy_id"`
	FarmerName       string              `json:"farmer_name"`
	DisasterType     models.DisasterType `json:"disaster_type"`
	Status           models.ClaimStatus  `json:"status"`
	SettlementAmount int64               `json:"settlement_amount"`
	ClauseCitation   string              `json:"clause_citation"`
	DecidedAt        time.Time           `json:"decided_at"`
}

const ClaimDecisionQueue string = "claim_decision_events"
