package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimSubmissionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ClaimSubmissionRequest
		wantErr bool
	}{
		{"valid", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 12.53, Lng: 76.93}, false},
		{"missing policy id", ClaimSubmissionRequest{PolicyID: "", Lat: 12.53, Lng: 76.93}, true},
		{"whitespace policy id", ClaimSubmissionRequest{PolicyID: "   ", Lat: 12.53, Lng: 76.93}, true},
		{"latitude too high", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 90.1, Lng: 76.93}, true},
		{"latitude too low", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: -90.1, Lng: 76.93}, true},
		{"longitude too high", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 12.53, Lng: 180.5}, true},
		{"longitude too low", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 12.53, Lng: -180.5}, true},
		{"boundary coordinates valid", ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 90, Lng: -180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDisasterType(t *testing.T) {
	assert.Equal(t, DisasterFlood, ParseDisasterType("Flood"))
	assert.Equal(t, DisasterNone, ParseDisasterType("None"))
	assert.Equal(t, DisasterNone, ParseDisasterType("Tornado"), "Unknown perils degrade to None")
	assert.Equal(t, DisasterNone, ParseDisasterType(""))
}

func TestFraudRisk_AtLeast(t *testing.T) {
	assert.Equal(t, FraudRiskMedium, FraudRiskLow.AtLeast(FraudRiskMedium))
	assert.Equal(t, FraudRiskHigh, FraudRiskHigh.AtLeast(FraudRiskMedium), "Escalation never lowers the level")
	assert.Equal(t, FraudRiskHigh, FraudRiskMedium.AtLeast(FraudRiskHigh))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleKannada, ParseLocale("kn"))
	assert.Equal(t, LocaleEnglish, ParseLocale("en"))
	assert.Equal(t, LocaleEnglish, ParseLocale(""))
	assert.Equal(t, LocaleEnglish, ParseLocale("fr"))
}
