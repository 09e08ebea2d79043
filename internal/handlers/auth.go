package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/restobook/restobook-backend/internal/services"
)

// AuthHandler handles login code verification from the app
type AuthHandler struct {
	coordinator *services.Coordinator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(coordinator *services.Coordinator) *AuthHandler {
	return &AuthHandler{coordinator: coordinator}
}

// VerifyCode handles POST /verify. The attempt consumes the code
// whatever the outcome; invalid and expired codes are reported in the
// body, not as HTTP errors.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Code is required",
		})
	}

	return c.JSON(h.coordinator.VerifyLogin(req.Code))
}
