package handlers

import (
	"errors"

	"bankhub/internal/core/domain"
	"bankhub/internal/core/services"
	"bankhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SettingsHandler handles loan settings endpoints
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the current loan settings
// @Summary Get loan settings
// @Description Get the current interest rate applied to new loans
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings/loan [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settingsService.Get(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSettingsMissing) {
			return response.NotFound(c, "Loan settings not configured")
		}
		return response.InternalServerError(c, "Failed to get loan settings")
	}

	return response.Success(c, "", fiber.Map{"settings": settings})
}

// UpdateSettingsRequest represents loan settings update request
type UpdateSettingsRequest struct {
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// Update changes the interest rate for future loans
// @Summary Update loan settings
// @Description Update the interest rate (Admin only). Existing loans keep their snapshotted rate.
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateSettingsRequest true "New settings"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /settings/loan [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.Context(), actorFromContext(c), req.InterestRate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only admin can update loan settings")
		case errors.Is(err, domain.ErrInvalidInterestRate):
			return response.BadRequest(c, "Interest rate must be positive")
		default:
			return response.InternalServerError(c, "Failed to update loan settings")
		}
	}

	return response.Success(c, "Loan settings updated successfully", fiber.Map{
		"settings": settings,
	})
}
