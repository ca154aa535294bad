package services

import (
	"testing"

	"claim-triage-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func validRawAssessment() map[string]any {
	return map[string]any{
		"type":                   "Flood",
		"confidence":             92.0,
		"severity":               85.0,
		"description":            "Standing water across the paddy field",
		"satellite_verification": "NDVI 0.2 consistent with inundation damage",
		"recommended_action":     "Approve under localized calamity provisions",
		"fraud_risk":             "Low",
		"weather_check_match":    true,
		"weather_analysis":       "85mm of rainfall recorded over the trailing week",
		"is_crop_match":          true,
		"detected_crop":          "Paddy (Rice)",
	}
}

// ============================================================================
// TEST SUITE 1: SCHEMA VALIDATION
// ============================================================================

func TestParseAssessment_ValidResponse(t *testing.T) {
	assessment, err := ParseAssessment(validRawAssessment())
	assert.NoError(t, err)
	assert.Equal(t, models.DisasterFlood, assessment.Type)
	assert.Equal(t, 92, assessment.Confidence)
	assert.Equal(t, 85, assessment.Severity)
	assert.Equal(t, models.FraudRiskLow, assessment.FraudRisk)
	assert.True(t, assessment.IsCropMatch)
	assert.Equal(t, "Paddy (Rice)", assessment.DetectedCrop)
	if assert.NotNil(t, assessment.WeatherCheckMatch) {
		assert.True(t, *assessment.WeatherCheckMatch)
	}
}

func TestParseAssessment_MissingRequiredFields(t *testing.T) {
	required := []string{"type", "confidence", "severity", "is_crop_match", "detected_crop"}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			raw := validRawAssessment()
			delete(raw, field)

			_, err := ParseAssessment(raw)
			assert.Error(t, err, "Missing %q must fail the whole assessment", field)
		})
	}
}

func TestParseAssessment_MistypedFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"type as number", "type", 3.0},
		{"confidence as string", "confidence", "ninety"},
		{"severity as bool", "severity", true},
		{"is_crop_match as string", "is_crop_match", "yes"},
		{"detected_crop as number", "detected_crop", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRawAssessment()
			raw[tt.field] = tt.value

			_, err := ParseAssessment(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseAssessment_EmptyResponse(t *testing.T) {
	_, err := ParseAssessment(nil)
	assert.Error(t, err)
}

// ============================================================================
// TEST SUITE 2: SAFE DEGRADATION
// ============================================================================

func TestParseAssessment_UnknownDisasterTypeDegradesToNone(t *testing.T) {
	raw := validRawAssessment()
	raw["type"] = "Earthquake"

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Equal(t, models.DisasterNone, assessment.Type)
}

func TestParseAssessment_UnknownFraudRiskDegradesToMedium(t *testing.T) {
	raw := validRawAssessment()
	raw["fraud_risk"] = "Severe"

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Equal(t, models.FraudRiskMedium, assessment.FraudRisk)
}

func TestParseAssessment_MissingFraudRiskDegradesToMedium(t *testing.T) {
	raw := validRawAssessment()
	delete(raw, "fraud_risk")

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Equal(t, models.FraudRiskMedium, assessment.FraudRisk)
}

func TestParseAssessment_ScoresClamped(t *testing.T) {
	raw := validRawAssessment()
	raw["confidence"] = 240.0
	raw["severity"] = -15.0

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Equal(t, 100, assessment.Confidence)
	assert.Equal(t, 0, assessment.Severity)
}

func TestParseAssessment_WeatherCheckMatchOptional(t *testing.T) {
	raw := validRawAssessment()
	delete(raw, "weather_check_match")

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Nil(t, assessment.WeatherCheckMatch)
}

func TestParseAssessment_OptionalTextDefaultsEmpty(t *testing.T) {
	raw := map[string]any{
		"type":          "Drought",
		"confidence":    70.0,
		"severity":      55.0,
		"is_crop_match": true,
		"detected_crop": "Wheat",
	}

	assessment, err := ParseAssessment(raw)
	assert.NoError(t, err)
	assert.Empty(t, assessment.Description)
	assert.Empty(t, assessment.RecommendedAction)
	assert.Empty(t, assessment.WeatherAnalysis)
}

// ============================================================================
// TEST SUITE 3: NEUTRAL FAILURE ASSESSMENT
// ============================================================================

func TestNeutralAssessment(t *testing.T) {
	neutral := models.NeutralAssessment(models.LocaleEnglish)
	assert.Equal(t, models.DisasterNone, neutral.Type)
	assert.Equal(t, 0, neutral.Confidence)
	assert.Equal(t, 0, neutral.Severity)
	assert.False(t, neutral.IsCropMatch)
	assert.NotEmpty(t, neutral.Description)

	kannada := models.NeutralAssessment(models.LocaleKannada)
	assert.Equal(t, models.DisasterNone, kannada.Type)
	assert.NotEqual(t, neutral.Description, kannada.Description)
}
