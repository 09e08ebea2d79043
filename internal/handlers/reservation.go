package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/restobook/restobook-backend/internal/models"
	"github.com/restobook/restobook-backend/internal/services"
	"github.com/restobook/restobook-backend/internal/storage"
)

// ReservationHandler handles reservation-related requests
type ReservationHandler struct {
	coordinator   *services.Coordinator
	twilioService *services.TwilioService
	operatorPhone string
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(coordinator *services.Coordinator, twilioService *services.TwilioService, operatorPhone string) *ReservationHandler {
	return &ReservationHandler{
		coordinator:   coordinator,
		twilioService: twilioService,
		operatorPhone: operatorPhone,
	}
}

// CreateReservation handles POST /reservation. The operator prompt is
// delivered after the coordinator call has returned; a failed send
// leaves the stored reservation untouched and pollable.
func (h *ReservationHandler) CreateReservation(c *fiber.Ctx) error {
	var req models.ReservationRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reservation, payload, err := h.coordinator.SubmitReservation(&req)
	if err != nil {
		if errors.Is(err, services.ErrMalformedRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Restaurant, date, customer name and subject id are required",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create reservation",
		})
	}

	go h.notifyOperator(payload)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": reservation.ID,
	})
}

// GetStatus handles GET /status?id=
func (h *ReservationHandler) GetStatus(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Reservation ID is required",
		})
	}

	status, err := h.coordinator.PollStatus(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve status",
		})
	}

	return c.JSON(fiber.Map{
		"status": status,
	})
}

func (h *ReservationHandler) notifyOperator(payload *services.NotificationPayload) {
	if h.twilioService == nil || h.operatorPhone == "" {
		log.Printf("📤 Operator prompt (not sent - Twilio not configured): %s", payload.Text)
		return
	}

	if err := h.twilioService.SendReservationPrompt(h.operatorPhone, payload); err != nil {
		log.Printf("❌ Failed to deliver prompt for reservation %s: %v", payload.ReservationID, err)
	}
}
