package models

import "time"

// ============================================================================
// INSURANCE POLICY
// ============================================================================

// Policy is a farmer's insurance contract for one land parcel. Policies are
// issued externally (registry sync) and are read-only to the triage engine.
type Policy struct {
	ID                 string         `json:"id" db:"id"`
	FarmerName         string         `json:"farmer_name" db:"farmer_name"`
	LandParcelID       string         `json:"land_parcel_id" db:"land_parcel_id"`
	CropType           string         `json:"crop_type" db:"crop_type"`
	Season             Season         `json:"season" db:"season"`
	Acres              float64        `json:"acres" db:"acres"`
	SumInsured         int64          `json:"sum_insured" db:"sum_insured"`
	PremiumPaid        int64          `json:"premium_paid" db:"premium_paid"`
	ImplementingAgency string         `json:"implementing_agency" db:"implementing_agency"`
	LocationLabel      string         `json:"location_label" db:"location_label"`
	Location           *GeoJSONPoint  `json:"location,omitempty" db:"location"`
	RegistryStatus     RegistryStatus `json:"registry_status" db:"registry_status"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}
