package services

import (
	"claim-triage-service/internal/models"
)

// PayoutCalculator maps an assessed yield loss to a claim amount under the
// PMFBY indemnity schedule. Pure and deterministic; every rupee it produces
// must be explainable by a clause citation.
type PayoutCalculator struct {
	// DroughtOnAccountCap enables the Clause 15.5 on-account payment cap:
	// drought payouts are limited to 25% of sum insured until final crop
	// cutting experiment data is in. Off by default; the full proportional
	// amount is paid.
	DroughtOnAccountCap bool
}

// NewPayoutCalculator creates a calculator with the given rule switches.
func NewPayoutCalculator(droughtOnAccountCap bool) *PayoutCalculator {
	return &PayoutCalculator{DroughtOnAccountCap: droughtOnAccountCap}
}

// ComputePayout calculates the indemnity for an assessed loss.
//
// Severity acts as the assessed yield-loss percentage (Clause 15.1.3:
// payout = shortfall/threshold x sum insured). Out-of-range severity is
// clamped, not rejected; range errors are reported where the classifier
// output is first parsed, so the payout path itself never blocks.
//
// Rules, in order:
//   - severity < 20: deductible floor, minimal loss is not covered
//   - proportional: floor(sumInsured x severity / 100)
//   - Clause 15.3 localized calamity: Fire/Flood/Storm above 80 severity is
//     assessed as total loss on individual farm basis, full sum insured
//   - Clause 15.5 on-account cap for Drought, when enabled
//
// The result is a whole currency amount in [0, sumInsured].
func (c *PayoutCalculator) ComputePayout(severity int, policy *models.Policy, disasterType models.DisasterType) int64 {
	if policy == nil || policy.SumInsured <= 0 {
		return 0
	}

	if severity < 0 {
		severity = 0
	} else if severity > 100 {
		severity = 100
	}

	if severity < 20 {
		return 0
	}

	payout := policy.SumInsured * int64(severity) / 100

	if disasterType.IsCatastrophicPeril() && severity > 80 {
		payout = policy.SumInsured
	}

	if c.DroughtOnAccountCap && disasterType == models.DisasterDrought {
		if cap := policy.SumInsured * 25 / 100; payout > cap {
			payout = cap
		}
	}

	return payout
}

// CalculatePremium returns the farmer's share of the insurance charge
// (Clause 10.1): 2% of sum insured for Kharif, 1.5% for Rabi.
func CalculatePremium(sumInsured int64, season models.Season) int64 {
	if sumInsured <= 0 {
		return 0
	}
	if season == models.SeasonKharif {
		return sumInsured * 2 / 100
	}
	return sumInsured * 15 / 1000
}

// CitationFor maps a disaster type to the governing PMFBY clause. Total over
// the enumeration: unrecognised types fall through to the general provisions.
func CitationFor(disasterType models.DisasterType) string {
	switch disasterType {
	case models.DisasterFlood, models.DisasterStorm, models.DisasterFire:
		return "Clause 15.3: Localized Calamities (Inundation/Fire)"
	case models.DisasterDrought:
		return "Clause 15.5: Mid-Season Adversity (On-Account Payment)"
	case models.DisasterPest, models.DisasterDisease:
		return "Clause 8.1.1: Yield Losses (Standing Crop)"
	default:
		return "PMFBY General Provisions"
	}
}
