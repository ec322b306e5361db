package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// onboardingChecker is implemented by *usecase.CompanyUseCase.
type onboardingChecker interface {
	IsOnboarded(ctx context.Context, tenantID string) (bool, error)
}

// RequireOnboarding blocks tenants whose company profile is not complete.
// Must run after AuthMiddleware.
//
//   - 403 ONBOARDING_REQUIRED when the profile is missing or incomplete.
//   - 503 when the profile store cannot be reached.
func RequireOnboarding(checker onboardingChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetUserID(c)
		if tenantID == "" {
			return unauthorized(c)
		}
		ok, err := checker.IsOnboarded(c.Context(), tenantID)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenantID).Msg("onboarding check failed")
			return errorJSON(c, fiber.StatusServiceUnavailable, "ONBOARDING_CHECK_FAILED",
				"could not verify onboarding, try again later")
		}
		if !ok {
			return errorJSON(c, fiber.StatusForbidden, "ONBOARDING_REQUIRED",
				domain.ErrOnboardingRequired.Error()+": complete your company details first")
		}
		return c.Next()
	}
}
