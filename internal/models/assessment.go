package models

// ============================================================================
// CLASSIFIER ASSESSMENT
// ============================================================================

// DisasterAssessment is the image classifier's structured verdict. It is an
// untrusted input to the engine: numeric fields are clamped and enum fields
// safely parsed at the boundary where the raw response is decoded, and the
// engine never assumes the self-reported consistency fields are correct.
type DisasterAssessment struct {
	Type                  DisasterType `json:"type"`
	Confidence            int          `json:"confidence"`
	Severity              int          `json:"severity"`
	Description           string       `json:"description"`
	SatelliteVerification string       `json:"satellite_verification"`
	RecommendedAction     string       `json:"recommended_action"`
	FraudRisk             FraudRisk    `json:"fraud_risk"`
	WeatherCheckMatch     *bool        `json:"weather_check_match,omitempty"`
	WeatherAnalysis       string       `json:"weather_analysis"`
	IsCropMatch           bool         `json:"is_crop_match"`
	DetectedCrop          string       `json:"detected_crop"`
}

// ClampScores bounds confidence and severity to [0,100] in place. Out-of-range
// model output is clamped, not rejected, to keep the pipeline non-blocking.
func (a *DisasterAssessment) ClampScores() {
	a.Confidence = clampScore(a.Confidence)
	a.Severity = clampScore(a.Severity)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NeutralAssessment is the documented substitute returned when the classifier
// fails outright: no disaster, zero confidence, crop unverified. The caller
// renders a retry outcome from it instead of recording a partial claim.
func NeutralAssessment(locale Locale) *DisasterAssessment {
	description := "Analysis failed. Please retry."
	if locale == LocaleKannada {
		description = "ವಿಶ್ಲೇಷಣೆ ವಿಫಲವಾಗಿದೆ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ."
	}
	return &DisasterAssessment{
		Type:                  DisasterNone,
		Confidence:            0,
		Severity:              0,
		Description:           description,
		SatelliteVerification: "N/A",
		RecommendedAction:     "Retry",
		FraudRisk:             FraudRiskLow,
		WeatherAnalysis:       "N/A",
		IsCropMatch:           false,
		DetectedCrop:          "Unknown",
	}
}
