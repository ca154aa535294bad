package models

import (
	"fmt"
	"strings"
)

// ClaimSubmissionRequest carries the parsed multipart fields of a claim
// submission. The photo itself travels separately as raw bytes.
type ClaimSubmissionRequest struct {
	PolicyID string  `json:"policy_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Locale   Locale  `json:"locale"`
}

// Validate checks the submission fields the engine must never be invoked
// without. The photo is validated separately by the handler.
func (r *ClaimSubmissionRequest) Validate() error {
	if strings.TrimSpace(r.PolicyID) == "" {
		return fmt.Errorf("policy_id is required")
	}
	if err := ValidateCoordinates(r.Lat, r.Lng); err != nil {
		return err
	}
	return nil
}

// ValidateCoordinates bounds-checks a WGS84 coordinate pair.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude out of range: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude out of range: %f", lng)
	}
	return nil
}
