package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"claim-triage-service/internal/database/minio"
	"claim-triage-service/internal/event"
	"claim-triage-service/internal/models"

	"github.com/google/uuid"
)

// PolicyStore resolves insurance policies. Read-only to the engine.
type PolicyStore interface {
	GetByID(ctx context.Context, id string) (*models.Policy, error)
}

// ClaimLedger is the append-only store for finalized claims.
type ClaimLedger interface {
	Append(ctx context.Context, claim *models.Claim) error
}

// AdjudicationService runs the single-shot claim triage: resolve policy,
// fan out to the ground-truth providers, invoke the classifier with their
// summaries, then compute the deterministic decision and append it to the
// ledger. One logical adjudication per submission; no shared mutable state
// between in-flight adjudications.
type AdjudicationService struct {
	calculator       *PayoutCalculator
	policyStore      PolicyStore
	ledger           ClaimLedger
	weatherService   IWeatherService
	satelliteService ISatelliteService
	classifier       DisasterClassifier
	minioClient      *minio.MinioClient
	publisher        *event.DecisionPublisher
	fetchTimeout     time.Duration
}

func NewAdjudicationService(
	calculator *PayoutCalculator,
	policyStore PolicyStore,
	ledger ClaimLedger,
	weatherService IWeatherService,
	satelliteService ISatelliteService,
	classifier DisasterClassifier,
	minioClient *minio.MinioClient,
	publisher *event.DecisionPublisher,
	fetchTimeout time.Duration,
) *AdjudicationService {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &AdjudicationService{
		calculator:       calculator,
		policyStore:      policyStore,
		ledger:           ledger,
		weatherService:   weatherService,
		satelliteService: satelliteService,
		classifier:       classifier,
		minioClient:      minioClient,
		publisher:        publisher,
		fetchTimeout:     fetchTimeout,
	}
}

// Adjudicate computes the final decision for one assessed claim. Pure with
// respect to external systems: all signals are already resolved.
//
// Disposition precedence:
//  1. crop mismatch        -> rejected, settlement 0
//  2. no disaster detected -> dismissed, settlement 0
//  3. effective fraud High -> under review, computed payout retained for
//     audit but withheld from settlement pending manual adjudication
//  4. otherwise            -> approved, settlement = computed payout
func (s *AdjudicationService) Adjudicate(assessment *models.DisasterAssessment, policy *models.Policy, groundTruth *models.GroundTruth) (*models.ClaimDecision, error) {
	if assessment == nil {
		return nil, fmt.Errorf("assessment is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("adjudication invoked without a resolved policy")
	}
	if policy.SumInsured <= 0 {
		return nil, fmt.Errorf("policy %s has invalid sum insured: %d", policy.ID, policy.SumInsured)
	}
	if groundTruth == nil {
		return nil, fmt.Errorf("ground truth is required")
	}

	assessment.ClampScores()

	flags := CheckConsistency(assessment, groundTruth)
	effectiveRisk := EscalateFraudRisk(assessment.FraudRisk, flags)

	computed := s.calculator.ComputePayout(assessment.Severity, policy, assessment.Type)
	citation := CitationFor(assessment.Type)

	decision := &models.ClaimDecision{
		ComputedPayout:     computed,
		ClauseCitation:     citation,
		ConsistencyFlags:   flags,
		EffectiveFraudRisk: effectiveRisk,
	}

	switch {
	case !assessment.IsCropMatch:
		decision.Status = models.ClaimRejected
		decision.SettlementAmount = 0
	case assessment.Type == models.DisasterNone:
		decision.Status = models.ClaimDismissed
		decision.SettlementAmount = 0
	case effectiveRisk == models.FraudRiskHigh:
		decision.Status = models.ClaimUnderReview
		decision.SettlementAmount = 0
	default:
		decision.Status = models.ClaimApproved
		decision.SettlementAmount = computed
	}

	return decision, nil
}

// ResolveGroundTruth fetches the weather and satellite signals concurrently.
// Both providers degrade internally to fallback values, so the fan-in always
// yields a complete snapshot; the classifier is only invoked after it.
func (s *AdjudicationService) ResolveGroundTruth(ctx context.Context, lat, lng float64) *models.GroundTruth {
	var (
		weather   models.WeatherSignal
		satellite models.SatelliteSignal
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		weather = s.weatherService.GetHistory(fetchCtx, lat, lng)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		satellite = s.satelliteService.GetIndex(fetchCtx, lat, lng)
	}()

	wg.Wait()

	return &models.GroundTruth{Weather: weather, Satellite: satellite}
}

// SubmitClaim runs the full triage pipeline for one submission and appends
// the finalized claim to the ledger. A classifier failure is fatal to the
// submission: nothing is recorded and the caller resets to resubmission.
func (s *AdjudicationService) SubmitClaim(ctx context.Context, req *models.ClaimSubmissionRequest, imageData []byte) (*models.Claim, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}
	if len(imageData) == 0 {
		return nil, fmt.Errorf("invalid submission: damage photo is required")
	}

	policy, err := s.policyStore.GetByID(ctx, req.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve policy %s: %w", req.PolicyID, err)
	}

	groundTruth := s.ResolveGroundTruth(ctx, req.Lat, req.Lng)

	slog.Info("Ground truth resolved",
		"policy_id", policy.ID,
		"rain_sum_7_days", groundTruth.Weather.RainSum7Days,
		"weather_source", groundTruth.Weather.Source,
		"ndvi", groundTruth.Satellite.NDVI,
		"satellite_source", groundTruth.Satellite.Source)

	assessment, err := s.classifier.Assess(ctx, AssessmentRequest{
		ImageData:    imageData,
		Lat:          req.Lat,
		Lng:          req.Lng,
		ExpectedCrop: policy.CropType,
		GroundTruth:  *groundTruth,
		Locale:       req.Locale,
	})
	if err != nil {
		// Fatal: no partial claim is recorded, the caller resets the flow.
		slog.Error("Disaster classification failed", "policy_id", policy.ID, "error", err)
		return nil, fmt.Errorf("disaster classification failed: %w", err)
	}

	decision, err := s.Adjudicate(assessment, policy, groundTruth)
	if err != nil {
		return nil, fmt.Errorf("adjudication failed: %w", err)
	}

	claimID := uuid.New()

	imageURL := s.storeEvidence(ctx, claimID, imageData)

	claim := &models.Claim{
		ID:                 claimID,
		PolicyID:           policy.ID,
		DisasterType:       assessment.Type,
		Severity:           assessment.Severity,
		Confidence:         assessment.Confidence,
		DetectedCrop:       assessment.DetectedCrop,
		ComputedPayout:     decision.ComputedPayout,
		SettlementAmount:   decision.SettlementAmount,
		Status:             decision.Status,
		ClauseCitation:     decision.ClauseCitation,
		EffectiveFraudRisk: decision.EffectiveFraudRisk,
		ConsistencyFlags:   joinFlags(decision.ConsistencyFlags),
		ImageURL:           imageURL,
		Lat:                req.Lat,
		Lng:                req.Lng,
		RainSum7Days:       groundTruth.Weather.RainSum7Days,
		MaxTemp7Days:       groundTruth.Weather.MaxTemp7Days,
		WeatherSource:      groundTruth.Weather.Source,
		NDVI:               groundTruth.Satellite.NDVI,
		SatelliteSource:    groundTruth.Satellite.Source,
		Description:        assessment.Description,
		RecommendedAction:  assessment.RecommendedAction,
		CreatedAt:          time.Now(),
	}

	if err := s.ledger.Append(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to record claim: %w", err)
	}

	s.publishDecision(ctx, claim, policy)

	slog.Info("Claim adjudicated",
		"claim_id", claim.ID,
		"policy_id", policy.ID,
		"status", claim.Status,
		"computed_payout", claim.ComputedPayout,
		"settlement_amount", claim.SettlementAmount,
		"effective_fraud_risk", claim.EffectiveFraudRisk)

	return claim, nil
}

// storeEvidence uploads the damage photo to the evidence bucket. Best
// effort: the decision stands even if evidence storage is unavailable.
func (s *AdjudicationService) storeEvidence(ctx context.Context, claimID uuid.UUID, imageData []byte) *string {
	if s.minioClient == nil {
		return nil
	}

	objectName := fmt.Sprintf("claims/%s.jpg", claimID)
	if err := s.minioClient.UploadBytes(ctx, minio.Storage.ClaimEvidence, objectName, imageData, "image/jpeg"); err != nil {
		slog.Warn("Failed to store claim evidence photo", "claim_id", claimID, "error", err)
		return nil
	}

	url := s.minioClient.ResourceURL(minio.Storage.ClaimEvidence, objectName)
	return &url
}

// publishDecision emits the claim.decided event. Best effort, logged on
// failure; the ledger record is the source of truth.
func (s *AdjudicationService) publishDecision(ctx context.Context, claim *models.Claim, policy *models.Policy) {
	if s.publisher == nil {
		return
	}

	evt := event.ClaimDecidedEvent{
		ClaimID:          claim.ID.String(),
		PolicyID:         claim.PolicyID,
		FarmerName:       policy.FarmerName,
		DisasterType:     claim.DisasterType,
		Status:           claim.Status,
		SettlementAmount: claim.SettlementAmount,
		ClauseCitation:   claim.ClauseCitation,
		DecidedAt:        claim.CreatedAt,
	}
	if err := s.publisher.PublishDecision(ctx, evt); err != nil {
		slog.Warn("Failed to publish claim decision event", "claim_id", claim.ID, "error", err)
	}
}

func joinFlags(flags []models.ConsistencyFlag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
