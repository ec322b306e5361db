package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/nexus-bills/internal/application/analytics"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// DashboardHandler dashboard statistics.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetDashboard returns counts, totals, recent activity, monthly trends and top
// customers of the authenticated tenant.
// GET /api/dashboard-data
//
// Dates are computed on the server in UTC; no parameters.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetDashboard(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
