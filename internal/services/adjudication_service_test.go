package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"claim-triage-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST DOUBLES
// ============================================================================

type fakePolicyStore struct {
	policies map[string]*models.Policy
}

func (s *fakePolicyStore) GetByID(ctx context.Context, id string) (*models.Policy, error) {
	policy, ok := s.policies[id]
	if !ok {
		return nil, fmt.Errorf("policy not found")
	}
	return policy, nil
}

type fakeClaimLedger struct {
	appended []*models.Claim
}

func (l *fakeClaimLedger) Append(ctx context.Context, claim *models.Claim) error {
	l.appended = append(l.appended, claim)
	return nil
}

type fakeWeatherService struct {
	signal models.WeatherSignal
	delay  time.Duration
}

func (w *fakeWeatherService) GetHistory(ctx context.Context, lat, lng float64) models.WeatherSignal {
	if w.delay > 0 {
		time.Sleep(w.delay)
	}
	return w.signal
}

type fakeSatelliteService struct {
	signal models.SatelliteSignal
	delay  time.Duration
}

func (s *fakeSatelliteService) GetIndex(ctx context.Context, lat, lng float64) models.SatelliteSignal {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.signal
}

func newTestAdjudicationService(classifier DisasterClassifier, store *fakePolicyStore, ledger *fakeClaimLedger) *AdjudicationService {
	return NewAdjudicationService(
		NewPayoutCalculator(false),
		store,
		ledger,
		&fakeWeatherService{signal: models.WeatherSignal{RainSum7Days: 85.0, MaxTemp7Days: 31.0, Source: models.SourceLive}},
		&fakeSatelliteService{signal: models.SatelliteSignal{NDVI: 0.2, Source: models.SourceLive}},
		classifier,
		nil, // no evidence storage in unit tests
		nil, // no event publisher in unit tests
		time.Second,
	)
}

// ============================================================================
// TEST SUITE 1: DISPOSITION PRECEDENCE
// ============================================================================

func TestAdjudicate_CropMismatchRejects(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	// A severe flood on the wrong crop is still a rejection.
	assessment := &models.DisasterAssessment{
		Type:         models.DisasterFlood,
		Confidence:   90,
		Severity:     70,
		FraudRisk:    models.FraudRiskLow,
		IsCropMatch:  false,
		DetectedCrop: "Sugarcane",
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(85.0, 0.2))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimRejected, decision.Status)
	assert.Equal(t, int64(0), decision.SettlementAmount)
}

func TestAdjudicate_NoDisasterDismisses(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	assessment := &models.DisasterAssessment{
		Type:        models.DisasterNone,
		Confidence:  95,
		Severity:    0,
		FraudRisk:   models.FraudRiskLow,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(5.0, 0.5))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimDismissed, decision.Status)
	assert.Equal(t, int64(0), decision.SettlementAmount)
}

func TestAdjudicate_HighFraudRiskWithholdsSettlement(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	// Drought at severity 60 on a 250000 policy computes 150000, but a High
	// fraud signal withholds it pending manual review.
	assessment := &models.DisasterAssessment{
		Type:        models.DisasterDrought,
		Confidence:  80,
		Severity:    60,
		FraudRisk:   models.FraudRiskHigh,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(3.0, 0.18))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimUnderReview, decision.Status)
	assert.Equal(t, int64(150000), decision.ComputedPayout, "Computed payout is retained for the audit trail")
	assert.Equal(t, int64(0), decision.SettlementAmount)
}

func TestAdjudicate_CleanClaimApproves(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	assessment := &models.DisasterAssessment{
		Type:        models.DisasterPest,
		Confidence:  85,
		Severity:    50,
		FraudRisk:   models.FraudRiskLow,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(500000), liveGroundTruth(20.0, 0.35))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, decision.Status)
	assert.Equal(t, int64(250000), decision.ComputedPayout)
	assert.Equal(t, int64(250000), decision.SettlementAmount)
	assert.Equal(t, "Clause 8.1.1: Yield Losses (Standing Crop)", decision.ClauseCitation)
	assert.Empty(t, decision.ConsistencyFlags)
}

func TestAdjudicate_CropMismatchBeatsHighRisk(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	assessment := &models.DisasterAssessment{
		Type:        models.DisasterFlood,
		Confidence:  90,
		Severity:    90,
		FraudRisk:   models.FraudRiskHigh,
		IsCropMatch: false,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(85.0, 0.2))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimRejected, decision.Status, "Crop mismatch takes precedence over fraud risk")
}

// ============================================================================
// TEST SUITE 2: CONSISTENCY ESCALATION WITHIN ADJUDICATION
// ============================================================================

func TestAdjudicate_EscalatedRiskFlipsToReview(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	// Classifier reports Low, but a claimed flood over a dry week with a
	// healthy canopy trips two checks, escalating to High.
	assessment := &models.DisasterAssessment{
		Type:        models.DisasterFlood,
		Confidence:  85,
		Severity:    70,
		FraudRisk:   models.FraudRiskLow,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(1.0, 0.6))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimUnderReview, decision.Status)
	assert.Equal(t, models.FraudRiskHigh, decision.EffectiveFraudRisk)
	assert.Len(t, decision.ConsistencyFlags, 2)
	assert.Equal(t, int64(0), decision.SettlementAmount)
}

func TestAdjudicate_SingleFlagStillApproves(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	// One flag lifts Low to Medium, which is not enough to withhold.
	assessment := &models.DisasterAssessment{
		Type:        models.DisasterFlood,
		Confidence:  85,
		Severity:    70,
		FraudRisk:   models.FraudRiskLow,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(85.0, 0.6))
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, decision.Status)
	assert.Equal(t, models.FraudRiskMedium, decision.EffectiveFraudRisk)
	assert.Equal(t, []models.ConsistencyFlag{models.FlagFloodHealthyVeg}, decision.ConsistencyFlags)
}

// ============================================================================
// TEST SUITE 3: FAIL-FAST GUARDS & CLAMPING
// ============================================================================

func TestAdjudicate_MissingInputs(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)
	assessment := testAssessment(models.DisasterPest, 50)

	_, err := service.Adjudicate(nil, createTestPolicy(250000), liveGroundTruth(20.0, 0.2))
	assert.Error(t, err)

	_, err = service.Adjudicate(assessment, nil, liveGroundTruth(20.0, 0.2))
	assert.Error(t, err)

	_, err = service.Adjudicate(assessment, createTestPolicy(0), liveGroundTruth(20.0, 0.2))
	assert.Error(t, err, "A policy without a positive sum insured must fail fast")

	_, err = service.Adjudicate(assessment, createTestPolicy(250000), nil)
	assert.Error(t, err)
}

func TestAdjudicate_ClampsOutOfRangeScores(t *testing.T) {
	service := newTestAdjudicationService(nil, nil, nil)

	assessment := &models.DisasterAssessment{
		Type:        models.DisasterPest,
		Confidence:  180,
		Severity:    250,
		FraudRisk:   models.FraudRiskLow,
		IsCropMatch: true,
	}

	decision, err := service.Adjudicate(assessment, createTestPolicy(250000), liveGroundTruth(20.0, 0.2))
	assert.NoError(t, err)
	assert.Equal(t, 100, assessment.Severity)
	assert.Equal(t, 100, assessment.Confidence)
	assert.Equal(t, int64(250000), decision.ComputedPayout)
}

// ============================================================================
// TEST SUITE 4: GROUND-TRUTH FAN-OUT
// ============================================================================

func TestResolveGroundTruth_ConcurrentFetch(t *testing.T) {
	service := NewAdjudicationService(
		NewPayoutCalculator(false),
		nil, nil,
		&fakeWeatherService{
			signal: models.WeatherSignal{RainSum7Days: 12.5, MaxTemp7Days: 34.0, Source: models.SourceLive},
			delay:  50 * time.Millisecond,
		},
		&fakeSatelliteService{
			signal: models.SatelliteSignal{NDVI: 0.31, Source: models.SourceLive},
			delay:  50 * time.Millisecond,
		},
		nil, nil, nil,
		time.Second,
	)

	start := time.Now()
	groundTruth := service.ResolveGroundTruth(context.Background(), 12.53, 76.93)
	elapsed := time.Since(start)

	assert.Equal(t, 12.5, groundTruth.Weather.RainSum7Days)
	assert.Equal(t, 0.31, groundTruth.Satellite.NDVI)
	assert.Less(t, elapsed, 95*time.Millisecond, "Providers should be fetched concurrently, not sequentially")
}

// ============================================================================
// TEST SUITE 5: FULL SUBMISSION PIPELINE
// ============================================================================

func TestSubmitClaim_EndToEnd(t *testing.T) {
	store := &fakePolicyStore{policies: map[string]*models.Policy{
		"pol_01": {
			ID:         "pol_01",
			FarmerName: "Ramesh Kumar",
			CropType:   "Paddy (Rice)",
			Season:     models.SeasonKharif,
			SumInsured: 250000,
		},
	}}
	ledger := &fakeClaimLedger{}
	classifier := &FixedResponseClassifier{
		Assessment: &models.DisasterAssessment{
			Type:         models.DisasterFlood,
			Confidence:   92,
			Severity:     85,
			FraudRisk:    models.FraudRiskLow,
			IsCropMatch:  true,
			DetectedCrop: "Paddy (Rice)",
		},
	}
	service := newTestAdjudicationService(classifier, store, ledger)

	claim, err := service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{
		PolicyID: "pol_01",
		Lat:      12.532981,
		Lng:      76.932119,
		Locale:   models.LocaleEnglish,
	}, []byte("jpeg-bytes"))

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, claim.Status)
	// Flood above 80 severity is a total loss.
	assert.Equal(t, int64(250000), claim.SettlementAmount)
	assert.Equal(t, "Clause 15.3: Localized Calamities (Inundation/Fire)", claim.ClauseCitation)
	assert.Equal(t, models.SourceLive, claim.WeatherSource)
	assert.Len(t, ledger.appended, 1)
	assert.Equal(t, claim.ID, ledger.appended[0].ID)
}

func TestSubmitClaim_ClassifierFailureIsFatal(t *testing.T) {
	store := &fakePolicyStore{policies: map[string]*models.Policy{
		"pol_01": {ID: "pol_01", CropType: "Cotton", SumInsured: 500000},
	}}
	ledger := &fakeClaimLedger{}
	classifier := &FixedResponseClassifier{Err: fmt.Errorf("model overloaded")}
	service := newTestAdjudicationService(classifier, store, ledger)

	_, err := service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{
		PolicyID: "pol_01",
		Lat:      12.53,
		Lng:      76.93,
	}, []byte("jpeg-bytes"))

	assert.Error(t, err)
	assert.ErrorContains(t, err, "disaster classification failed")
	assert.Empty(t, ledger.appended, "No partial claim may be recorded after a classifier failure")
}

func TestSubmitClaim_UnknownPolicy(t *testing.T) {
	service := newTestAdjudicationService(&FixedResponseClassifier{}, &fakePolicyStore{policies: map[string]*models.Policy{}}, &fakeClaimLedger{})

	_, err := service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{
		PolicyID: "pol_missing",
		Lat:      12.53,
		Lng:      76.93,
	}, []byte("jpeg-bytes"))

	assert.Error(t, err)
	assert.ErrorContains(t, err, "failed to resolve policy")
}

func TestSubmitClaim_InvalidSubmission(t *testing.T) {
	service := newTestAdjudicationService(&FixedResponseClassifier{}, &fakePolicyStore{}, &fakeClaimLedger{})

	_, err := service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{PolicyID: "", Lat: 12.53, Lng: 76.93}, []byte("x"))
	assert.Error(t, err)

	_, err = service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 95.0, Lng: 76.93}, []byte("x"))
	assert.Error(t, err)

	_, err = service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{PolicyID: "pol_01", Lat: 12.53, Lng: 76.93}, nil)
	assert.Error(t, err, "A submission without a damage photo must be refused")
}

func TestSubmitClaim_FraudReviewScenario(t *testing.T) {
	store := &fakePolicyStore{policies: map[string]*models.Policy{
		"pol_01": {ID: "pol_01", FarmerName: "Ramesh Kumar", CropType: "Paddy (Rice)", SumInsured: 250000},
	}}
	ledger := &fakeClaimLedger{}
	classifier := &FixedResponseClassifier{
		Assessment: &models.DisasterAssessment{
			Type:         models.DisasterDrought,
			Confidence:   70,
			Severity:     60,
			FraudRisk:    models.FraudRiskHigh,
			IsCropMatch:  true,
			DetectedCrop: "Paddy (Rice)",
		},
	}
	service := newTestAdjudicationService(classifier, store, ledger)

	claim, err := service.SubmitClaim(context.Background(), &models.ClaimSubmissionRequest{
		PolicyID: "pol_01",
		Lat:      12.53,
		Lng:      76.93,
	}, []byte("jpeg-bytes"))

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimUnderReview, claim.Status)
	assert.Equal(t, int64(150000), claim.ComputedPayout)
	assert.Equal(t, int64(0), claim.SettlementAmount)
	assert.Len(t, ledger.appended, 1, "Under-review claims are still recorded on the ledger")
}
