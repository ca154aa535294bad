package services

import (
	"claim-triage-service/internal/models"
)

// Ground-truth thresholds for the cross-verification rules. Mirrors the
// classifier's own protocol so a deterministic recomputation can catch a
// model that ignored its instructions.
const (
	floodMinRainfallMM    = 10.0
	droughtMaxRainfallMM  = 50.0
	stressedNDVIThreshold = 0.3
	healthyNDVIThreshold  = 0.4
	severePestSeverityMin = 60
)

// CheckConsistency reconciles the claimed peril against the independently
// fetched weather and satellite signals. Any flag is advisory: it escalates
// the fraud-risk signal rather than rejecting the claim, because satellite
// and weather resolution can lag a real event.
//
// Checks are skipped for a signal whose provenance is fallback - a substitute
// constant must never incriminate a claim.
func CheckConsistency(assessment *models.DisasterAssessment, groundTruth *models.GroundTruth) []models.ConsistencyFlag {
	if assessment == nil || groundTruth == nil {
		return nil
	}

	var flags []models.ConsistencyFlag

	if groundTruth.Weather.Source == models.SourceLive {
		rain := groundTruth.Weather.RainSum7Days

		if assessment.Type == models.DisasterFlood && rain < floodMinRainfallMM {
			flags = append(flags, models.FlagFloodWithoutRainfall)
		}
		if assessment.Type == models.DisasterDrought && rain > droughtMaxRainfallMM {
			flags = append(flags, models.FlagDroughtWithRainfall)
		}
	}

	if groundTruth.Satellite.Source == models.SourceLive {
		ndvi := groundTruth.Satellite.NDVI

		if claimsVegetationStress(assessment) && ndvi >= stressedNDVIThreshold {
			flags = append(flags, models.FlagStressClaimHealthyVeg)
		}
		if assessment.Type == models.DisasterFlood && ndvi >= healthyNDVIThreshold {
			flags = append(flags, models.FlagFloodHealthyVeg)
		}
	}

	return flags
}

// claimsVegetationStress reports whether the claimed peril should show a
// depressed vegetation index from orbit: drought always, pest and disease
// only once the assessed loss is severe.
func claimsVegetationStress(assessment *models.DisasterAssessment) bool {
	switch assessment.Type {
	case models.DisasterDrought:
		return true
	case models.DisasterPest, models.DisasterDisease:
		return assessment.Severity >= severePestSeverityMin
	default:
		return false
	}
}

// EscalateFraudRisk folds the consistency flags into the classifier's
// reported fraud-risk level. One flag lifts the level to at least Medium,
// two or more to High. The reported level is never lowered.
func EscalateFraudRisk(reported models.FraudRisk, flags []models.ConsistencyFlag) models.FraudRisk {
	switch {
	case len(flags) >= 2:
		return reported.AtLeast(models.FraudRiskHigh)
	case len(flags) == 1:
		return reported.AtLeast(models.FraudRiskMedium)
	default:
		return reported
	}
}
