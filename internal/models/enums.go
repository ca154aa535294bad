package models

// DisasterType is the fixed set of perils recognised under the PMFBY
// assessment protocol (Clause 8.1).
type DisasterType string

const (
	DisasterDrought DisasterType = "Drought"
	DisasterFlood   DisasterType = "Flood"
	DisasterPest    DisasterType = "Pest"
	DisasterDisease DisasterType = "Disease"
	DisasterFire    DisasterType = "Fire"
	DisasterStorm   DisasterType = "Storm"
	DisasterNone    DisasterType = "None"
)

// ParseDisasterType maps a raw classifier string to a known disaster type.
// Unrecognised values degrade to DisasterNone so an odd model output can
// never reach the payout path as an exception.
func ParseDisasterType(raw string) DisasterType {
	switch DisasterType(raw) {
	case DisasterDrought, DisasterFlood, DisasterPest, DisasterDisease, DisasterFire, DisasterStorm, DisasterNone:
		return DisasterType(raw)
	default:
		return DisasterNone
	}
}

// IsCatastrophicPeril reports whether the peril qualifies for the Clause 15.3
// total-loss override (localized calamities assessed on individual farm basis).
func (t DisasterType) IsCatastrophicPeril() bool {
	return t == DisasterFire || t == DisasterFlood || t == DisasterStorm
}

type FraudRisk string

const (
	FraudRiskLow    FraudRisk = "Low"
	FraudRiskMedium FraudRisk = "Medium"
	FraudRiskHigh   FraudRisk = "High"
)

// ParseFraudRisk maps a raw classifier string to a fraud-risk level.
// Unrecognised values degrade to Medium: the claim is neither auto-settled
// on a garbled signal nor auto-escalated to manual review.
func ParseFraudRisk(raw string) FraudRisk {
	switch FraudRisk(raw) {
	case FraudRiskLow, FraudRiskMedium, FraudRiskHigh:
		return FraudRisk(raw)
	default:
		return FraudRiskMedium
	}
}

// rank orders fraud-risk levels for escalation comparisons.
func (r FraudRisk) rank() int {
	switch r {
	case FraudRiskHigh:
		return 2
	case FraudRiskMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast returns the higher of the two levels. Escalation never lowers
// the classifier's reported level.
func (r FraudRisk) AtLeast(other FraudRisk) FraudRisk {
	if other.rank() > r.rank() {
		return other
	}
	return r
}

// Season is the PMFBY growing season of the policy.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
)

// RegistryStatus is the linkage state of a policy against the government
// land/policy registry (Bhoomi).
type RegistryStatus string

const (
	RegistryLinked  RegistryStatus = "Linked"
	RegistryPending RegistryStatus = "Pending"
)

// ClaimStatus is the terminal disposition of a single-shot adjudication.
// Promotion of an under-review claim is an external, human process.
type ClaimStatus string

const (
	ClaimApproved    ClaimStatus = "approved"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimRejected    ClaimStatus = "rejected"
	ClaimDismissed   ClaimStatus = "dismissed"
)

// SignalSource tags ground-truth provenance: a live upstream value or the
// documented fallback substituted after an upstream failure.
type SignalSource string

const (
	SourceLive     SignalSource = "live"
	SourceFallback SignalSource = "fallback"
)

// Locale selects the language of classifier free-text fields.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKannada Locale = "kn"
)

func ParseLocale(raw string) Locale {
	if Locale(raw) == LocaleKannada {
		return LocaleKannada
	}
	return LocaleEnglish
}
