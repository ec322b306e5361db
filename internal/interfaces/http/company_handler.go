package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// CompanyHandler onboarding and company profile endpoints.
type CompanyHandler struct {
	uc  *usecase.CompanyUseCase
	log *logger.Logger
}

// NewCompanyHandler builds the handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// CompleteOnboarding saves the company details and unlocks billing.
// POST /api/onboarding/company
func (h *CompanyHandler) CompleteOnboarding(c *fiber.Ctx) error {
	return h.save(c, h.uc.CompleteOnboarding, "Company details saved successfully!")
}

// UpdateDetails replaces the company details without touching the onboarding state.
// POST /api/update-company-details
func (h *CompanyHandler) UpdateDetails(c *fiber.Ctx) error {
	return h.save(c, h.uc.UpdateDetails, "Company details updated successfully!")
}

func (h *CompanyHandler) save(
	c *fiber.Ctx,
	fn func(ctx context.Context, tenantID string, in dto.CompanyDetailsRequest) (*dto.CompanyResponse, error),
	message string,
) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CompanyDetailsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	company, err := fn(c.Context(), tenantID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CompanyDetailsResponse{Status: dto.StatusSuccess, Message: message, Company: company})
}

// Status GET /api/onboarding/status
func (h *CompanyHandler) Status(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Status(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get GET /api/onboarding/company, 404 when the tenant has no profile.
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	company, err := h.uc.Get(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"status": dto.StatusSuccess, "company": company})
}
