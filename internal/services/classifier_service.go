package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"claim-triage-service/internal/ai/gemini"
	"claim-triage-service/internal/models"
)

// AssessmentRequest carries everything the classifier needs for one claim
// photo: the image, the coordinate, the insured crop and the resolved
// ground-truth context.
type AssessmentRequest struct {
	ImageData    []byte
	Lat          float64
	Lng          float64
	ExpectedCrop string
	GroundTruth  models.GroundTruth
	Locale       models.Locale
}

// DisasterClassifier is the image-understanding oracle. The engine treats
// its output as untrusted structured input: schema-validated, clamped and
// safely parsed on receipt. A returned error is fatal to the submission.
type DisasterClassifier interface {
	Assess(ctx context.Context, req AssessmentRequest) (*models.DisasterAssessment, error)
}

// LiveClassifier adapts the Gemini client pool to the classifier contract.
type LiveClassifier struct {
	selector *gemini.GeminiClientSelector
}

func NewLiveClassifier(selector *gemini.GeminiClientSelector) *LiveClassifier {
	return &LiveClassifier{selector: selector}
}

func (c *LiveClassifier) Assess(ctx context.Context, req AssessmentRequest) (*models.DisasterAssessment, error) {
	if len(req.ImageData) == 0 {
		return nil, fmt.Errorf("image data is required")
	}
	if c.selector == nil {
		return nil, fmt.Errorf("gemini selector is not configured")
	}

	prompt := gemini.BuildDisasterAssessmentPrompt(
		req.Lat, req.Lng, req.ExpectedCrop,
		req.GroundTruth.Weather, req.GroundTruth.Satellite,
		req.Locale,
	)

	imageBase64 := base64.StdEncoding.EncodeToString(req.ImageData)

	aiResp, err := gemini.SendAIWithImagesAndRetry(ctx, prompt, []string{imageBase64}, c.selector)
	if err != nil {
		return nil, fmt.Errorf("disaster assessment request failed: %w", err)
	}

	assessment, err := ParseAssessment(aiResp)
	if err != nil {
		return nil, fmt.Errorf("disaster assessment response invalid: %w", err)
	}

	return assessment, nil
}

// ParseAssessment validates and converts the raw classifier response map
// into a DisasterAssessment. Required fields missing or mistyped fail the
// whole assessment; numeric ranges are clamped and enum strings degrade to
// their safe defaults.
func ParseAssessment(raw map[string]any) (*models.DisasterAssessment, error) {
	if raw == nil {
		return nil, fmt.Errorf("empty response")
	}

	typeStr, err := requireString(raw, "type")
	if err != nil {
		return nil, err
	}
	confidence, err := requireNumber(raw, "confidence")
	if err != nil {
		return nil, err
	}
	severity, err := requireNumber(raw, "severity")
	if err != nil {
		return nil, err
	}
	cropMatch, err := requireBool(raw, "is_crop_match")
	if err != nil {
		return nil, err
	}
	detectedCrop, err := requireString(raw, "detected_crop")
	if err != nil {
		return nil, err
	}

	assessment := &models.DisasterAssessment{
		Type:                  models.ParseDisasterType(typeStr),
		Confidence:            int(confidence),
		Severity:              int(severity),
		Description:           optionalString(raw, "description"),
		SatelliteVerification: optionalString(raw, "satellite_verification"),
		RecommendedAction:     optionalString(raw, "recommended_action"),
		FraudRisk:             models.ParseFraudRisk(optionalString(raw, "fraud_risk")),
		WeatherAnalysis:       optionalString(raw, "weather_analysis"),
		IsCropMatch:           cropMatch,
		DetectedCrop:          detectedCrop,
	}

	// weather_check_match is the classifier's self-reported consistency
	// verdict; it may be wrong or omitted, so it stays nullable and the
	// engine recomputes its own checks.
	if v, ok := raw["weather_check_match"].(bool); ok {
		assessment.WeatherCheckMatch = &v
	}

	assessment.ClampScores()

	return assessment, nil
}

func requireString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("required field %q missing", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string, got %T", key, v)
	}
	return s, nil
}

func requireNumber(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, fmt.Errorf("required field %q missing", key)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number, got %T", key, v)
	}
	return n, nil
}

func requireBool(raw map[string]any, key string) (bool, error) {
	v, ok := raw[key]
	if !ok {
		return false, fmt.Errorf("required field %q missing", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %q is not a boolean, got %T", key, v)
	}
	return b, nil
}

func optionalString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// FixedResponseClassifier returns a canned assessment or error. Test double
// for the oracle.
type FixedResponseClassifier struct {
	Assessment *models.DisasterAssessment
	Err        error
}

func (c *FixedResponseClassifier) Assess(ctx context.Context, req AssessmentRequest) (*models.DisasterAssessment, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Assessment, nil
}
