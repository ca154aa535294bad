package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"claim-triage-service/internal/repository"
	"claim-triage-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type PolicyHandler struct {
	policyRepo *repository.PolicyRepository
}

func NewPolicyHandler(policyRepo *repository.PolicyRepository) *PolicyHandler {
	return &PolicyHandler{policyRepo: policyRepo}
}

func (h *PolicyHandler) Register(app *fiber.App) {
	publicGr := app.Group("triage/public/api/v1")

	policyGroup := publicGr.Group("/policies")
	policyGroup.Get("/list", h.GetAllPolicies)       // GET /policies/list
	policyGroup.Get("/detail/:id", h.GetPolicyDetail) // GET /policies/detail/:id
}

// GetAllPolicies retrieves all policies
func (h *PolicyHandler) GetAllPolicies(c fiber.Ctx) error {
	policies, err := h.policyRepo.GetAll(c.Context())
	if err != nil {
		slog.Error("Failed to get policies", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve policies"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"policies": policies,
		"count":    len(policies),
	}))
}

// GetPolicyDetail retrieves a specific policy by id
func (h *PolicyHandler) GetPolicyDetail(c fiber.Ctx) error {
	policyID := c.Params("id")
	if policyID == "" {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_POLICY_ID", "Policy ID is required"))
	}

	policy, err := h.policyRepo.GetByID(c.Context(), policyID)
	if err != nil {
		if errors.Is(err, repository.ErrPolicyNotFound) {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Policy not found"))
		}
		slog.Error("Failed to get policy", "policy_id", policyID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve policy"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(policy))
}
