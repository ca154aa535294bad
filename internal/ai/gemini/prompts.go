package gemini

import (
	"fmt"

	"claim-triage-service/internal/models"
)

const disasterAssessmentPromptTemplate = `You are an AI Digital Surveyor for the Pradhan Mantri Fasal Bima Yojana (PMFBY).
Your task is to perform an "Individual Farm Level Assessment" under Clause 20 (Use of Innovative Technology).

## CRITICAL RULES
1. Output ONLY valid JSON matching the schema below - no markdown, no explanations, no preamble
2. Your response must start with { and end with }

## CONTEXT
1. Location: Lat %f, Lng %f.
2. Policy Data: Farmer insured for '%s'.
3. %s
4. %s

## PROTOCOL
1. CROP VERIFICATION (Bhoomi Database Match):
   - Visually confirm if the crop in the photo is '%s'.
   - If it is a completely different crop, or if the image is too blurry/unclear to identify, flag "is_crop_match": false.

2. DISASTER IDENTIFICATION (Clause 8.1):
   - Detect: 'Drought', 'Flood' (Inundation), 'Pest', 'Disease', 'Fire', 'Storm' (Hailstorm/Cyclone), or 'None'.

3. SATELLITE CROSS-VERIFICATION (Ground Truth Check 1):
   - Compare the visual evidence with the satellite NDVI value.
   - If "Drought" or severe "Pest/Disease" is claimed, the NDVI should be low (<0.3).
   - If "Flood" is claimed, NDVI might be very low or negative.
   - If the photo shows healthy crops but NDVI is low, it could indicate a recent event not yet visible from space. Note this possibility.
   - Provide a concise one-sentence analysis in the 'satellite_verification' field explaining if the NDVI data supports the visual evidence.

4. WEATHER PATTERN VALIDITY (Ground Truth Check 2):
   - If "Flood" detected AND Rain < 10mm -> Flag "weather_check_match": false.
   - If "Drought" detected AND Rain > 50mm -> Flag "weather_check_match": false.
   - Otherwise "weather_check_match": true.
   - Provide a short reasoning in 'weather_analysis'.

5. LOSS ASSESSMENT (Clause 15.3):
   - Estimate 'severity' (0-100) representing the Percentage of Yield Loss based on the photo.

%s

## OUTPUT SCHEMA
{
  "type": "string, one of: Drought, Flood, Pest, Disease, Fire, Storm, None",
  "confidence": "integer 0-100, AI confidence",
  "severity": "integer 0-100, estimated yield loss percentage",
  "description": "string, technical assessment description (localized)",
  "satellite_verification": "string, concise analysis of whether NDVI data supports visual evidence",
  "recommended_action": "string, next steps for farmer or implementing agency (localized)",
  "fraud_risk": "string, one of: Low, Medium, High",
  "weather_check_match": "boolean, does visual evidence align with weather data",
  "weather_analysis": "string, reasoning for weather data correlation",
  "is_crop_match": "boolean, does crop match policy",
  "detected_crop": "string, name of crop identified"
}

All fields are required.`

// BuildDisasterAssessmentPrompt assembles the surveyor prompt from the policy
// context and the resolved ground-truth signals. The signals must already be
// resolved (live or fallback) before calling: the classifier reasons over
// their concrete values.
func BuildDisasterAssessmentPrompt(lat, lng float64, expectedCrop string, weather models.WeatherSignal, satellite models.SatelliteSignal, locale models.Locale) string {
	weatherContext := fmt.Sprintf(
		"Real-time Weather Station Data (Last 7 days): Total Rainfall: %.1f mm, Max Temperature: %.1f C.",
		weather.RainSum7Days, weather.MaxTemp7Days)
	if weather.Source == models.SourceFallback {
		weatherContext = "No local weather data available (station feed degraded, fallback values in use)."
	}

	satelliteContext := fmt.Sprintf(
		"Satellite Vegetation Index (NDVI) from %s: NDVI Value: %.3f. (Note: Healthy vegetation NDVI is > 0.4. Stressed/unhealthy is < 0.3).",
		satellite.LastUpdated.Format("2006-01-02"), satellite.NDVI)
	if satellite.Source == models.SourceFallback {
		satelliteContext = "No satellite vegetation index data available (fallback value in use)."
	}

	languageInstruction := "Provide all text fields ('description', 'satellite_verification', etc.) in ENGLISH language."
	if locale == models.LocaleKannada {
		languageInstruction = "IMPORTANT: Provide all text fields ('description', 'satellite_verification', etc.) in KANNADA language."
	}

	return fmt.Sprintf(disasterAssessmentPromptTemplate,
		lat, lng, expectedCrop, weatherContext, satelliteContext, expectedCrop, languageInstruction)
}
