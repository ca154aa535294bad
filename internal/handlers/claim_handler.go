package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"claim-triage-service/internal/models"
	"claim-triage-service/internal/repository"
	"claim-triage-service/internal/services"
	"claim-triage-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Damage photos above this size are rejected before touching the classifier.
const maxEvidencePhotoBytes = 10 << 20

type ClaimHandler struct {
	adjudicationService *services.AdjudicationService
	claimRepo           *repository.ClaimRepository
}

func NewClaimHandler(adjudicationService *services.AdjudicationService, claimRepo *repository.ClaimRepository) *ClaimHandler {
	return &ClaimHandler{
		adjudicationService: adjudicationService,
		claimRepo:           claimRepo,
	}
}

func (h *ClaimHandler) Register(app *fiber.App) {
	publicGr := app.Group("triage/public/api/v1")

	claimGroup := publicGr.Group("/claims")
	claimGroup.Post("/submit", h.SubmitClaim)           // POST /claims/submit
	claimGroup.Get("/list", h.GetAllClaims)             // GET  /claims/list
	claimGroup.Get("/detail/:id", h.GetClaimDetail)     // GET  /claims/detail/:id
	claimGroup.Get("/by-policy/:policy_id", h.GetClaimsByPolicy) // GET /claims/by-policy/:policy_id
}

// SubmitClaim accepts a multipart claim submission (photo + policy id +
// coordinates) and runs the full triage pipeline.
func (h *ClaimHandler) SubmitClaim(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("PHOTO_REQUIRED", "A damage photo is required"))
	}
	if fileHeader.Size > maxEvidencePhotoBytes {
		return c.Status(http.StatusRequestEntityTooLarge).JSON(
			utils.CreateErrorResponse("PHOTO_TOO_LARGE", "Damage photo exceeds the size limit"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("PHOTO_UNREADABLE", "Failed to read the uploaded photo"))
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("PHOTO_UNREADABLE", "Failed to read the uploaded photo"))
	}

	lat, latErr := strconv.ParseFloat(c.FormValue("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.FormValue("lng"), 64)
	if latErr != nil || lngErr != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_COORDINATES", "lat and lng must be valid numbers"))
	}

	req := &models.ClaimSubmissionRequest{
		PolicyID: c.FormValue("policy_id"),
		Lat:      lat,
		Lng:      lng,
		Locale:   models.ParseLocale(c.FormValue("locale")),
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_SUBMISSION", err.Error()))
	}

	claim, err := h.adjudicationService.SubmitClaim(c.Context(), req, imageData)
	if err != nil {
		if strings.Contains(err.Error(), "policy not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("POLICY_NOT_FOUND", "No policy found for the given id"))
		}
		if strings.Contains(err.Error(), "classification failed") {
			// Oracle failure is fatal to the submission: the farmer retries.
			return c.Status(http.StatusBadGateway).JSON(
				utils.CreateErrorResponse("ANALYSIS_FAILED", "Analysis failed. Please retry."))
		}
		slog.Error("Claim submission failed", "policy_id", req.PolicyID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("SUBMISSION_FAILED", "Failed to process the claim"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(claim))
}

// GetAllClaims retrieves all claims with optional status/type filters
func (h *ClaimHandler) GetAllClaims(c fiber.Ctx) error {
	filters := map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filters["status"] = models.ClaimStatus(status)
	}
	if disasterType := c.Query("type"); disasterType != "" {
		filters["disaster_type"] = models.ParseDisasterType(disasterType)
	}

	claims, err := h.claimRepo.GetAll(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to get claims", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claims"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"claims": claims,
		"count":  len(claims),
	}))
}

// GetClaimDetail retrieves a specific claim by id
func (h *ClaimHandler) GetClaimDetail(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	claim, err := h.claimRepo.GetByID(c.Context(), claimID)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to get claim", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claim"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(claim))
}

// GetClaimsByPolicy retrieves claims for a specific policy
func (h *ClaimHandler) GetClaimsByPolicy(c fiber.Ctx) error {
	policyID := c.Params("policy_id")
	if policyID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_POLICY_ID", "Policy ID is required"))
	}

	claims, err := h.claimRepo.GetByPolicyID(c.Context(), policyID)
	if err != nil {
		slog.Error("Failed to get claims by policy", "policy_id", policyID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claims"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"claims":    claims,
		"count":     len(claims),
		"policy_id": policyID,
	}))
}
