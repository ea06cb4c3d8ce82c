package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/view"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// DashboardsHandler serves the head and super-admin dashboard endpoints.
type DashboardsHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardsHandler constructs handler.
func NewDashboardsHandler(dashboards *service.DashboardService) *DashboardsHandler {
	return &DashboardsHandler{dashboards: dashboards}
}

// Department GET /dashboards/department serves the head's view.
func (h *DashboardsHandler) Department(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	dashboard, err := h.dashboards.HeadDashboard(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboard})
}

// Overview GET /dashboards/overview serves the super-admin report.
func (h *DashboardsHandler) Overview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	overview, err := h.dashboards.AdminOverview(c.Context(), principal.User, parseAdminFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

func parseAdminFilter(c *fiber.Ctx) view.AdminFilter {
	filter := view.AdminFilter{}
	if dept := strings.TrimSpace(c.Query("department_id")); dept != "" {
		filter.DepartmentID = &dept
	}
	if floor := strings.TrimSpace(c.Query("floor")); floor != "" {
		filter.Floor = &floor
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part)))
			switch status {
			case domain.TicketStatusOpen, domain.TicketStatusAssigned,
				domain.TicketStatusCompleted, domain.TicketStatusRejected:
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	return filter
}
