package handlers

import (
	"bankhub/internal/core/domain"
	"bankhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// actorFromContext builds the acting principal from the values the auth
// middleware stored in the request context
func actorFromContext(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	return services.Actor{
		UserID: userID,
		Role:   domain.Role(role),
	}
}
