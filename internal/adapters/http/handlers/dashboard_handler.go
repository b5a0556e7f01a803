package handlers

import (
	"errors"

	"bankhub/internal/core/domain"
	"bankhub/internal/core/services"
	"bankhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get returns the dashboard for the acting role
// @Summary Dashboard
// @Description Get the dashboard matching the authenticated user's role
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	actor := actorFromContext(c)

	switch actor.Role {
	case domain.RoleCustomer:
		data, err := h.dashboardService.GetCustomerDashboard(c.Context(), actor.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrCustomerNotFound) {
				return response.NotFound(c, "Customer profile not found")
			}
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "", data)
	case domain.RoleStaff:
		data, err := h.dashboardService.GetStaffDashboard(c.Context())
		if err != nil {
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "", data)
	case domain.RoleAdmin:
		data, err := h.dashboardService.GetAdminDashboard(c.Context())
		if err != nil {
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "", data)
	default:
		return response.Forbidden(c, "Unknown role")
	}
}
