package models

import "time"

// ============================================================================
// GROUND TRUTH SIGNALS
// ============================================================================

// WeatherSignal is the trailing 7-day weather history resolved for a claim
// coordinate. Source marks whether the value came from the live upstream or
// the documented fallback.
type WeatherSignal struct {
	RainSum7Days float64      `json:"rain_sum_7_days"`
	MaxTemp7Days float64      `json:"max_temp_7_days"`
	Source       SignalSource `json:"source"`
}

// SatelliteSignal is a single NDVI reading for a coordinate. Healthy
// vegetation reads above 0.4, stressed below 0.3.
type SatelliteSignal struct {
	NDVI        float64      `json:"ndvi"`
	LastUpdated time.Time    `json:"last_updated"`
	Source      SignalSource `json:"source"`
}

// GroundTruth is the pair of independent signals fetched once per claim
// before the classifier is invoked. Immutable; a failed fetch is substituted
// with a fallback value, never retried mid-adjudication.
type GroundTruth struct {
	Weather   WeatherSignal   `json:"weather"`
	Satellite SatelliteSignal `json:"satellite"`
}
