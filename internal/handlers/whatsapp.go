package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/restobook/restobook-backend/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	whatsappService *services.WhatsAppService
	twilioService   *services.TwilioService
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(whatsappService *services.WhatsAppService, twilioService *services.TwilioService) *WhatsAppHandler {
	return &WhatsAppHandler{
		whatsappService: whatsappService,
		twilioService:   twilioService,
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid    string `form:"MessageSid"`
	AccountSid    string `form:"AccountSid"`
	From          string `form:"From"` // WhatsApp number (whatsapp:+919876543210)
	To            string `form:"To"`   // Your Twilio number
	Body          string `form:"Body"` // Message text
	ProfileName   string `form:"ProfileName"`
	ButtonText    string `form:"ButtonText"`
	ButtonPayload string `form:"ButtonPayload"` // Action token from a quick-reply tap
}

// HandleWebhook processes incoming WhatsApp messages and button taps
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Quick-reply taps carry the action token in ButtonPayload; plain
	// messages carry the text in Body. Status callbacks carry neither.
	message := payload.ButtonPayload
	if message == "" {
		message = payload.Body
	}

	if message != "" && payload.From != "" {
		from := strings.TrimPrefix(payload.From, "whatsapp:")
		log.Printf("📱 WhatsApp message from %s: %s", from, message)

		response, err := h.whatsappService.ProcessMessage(from, payload.ProfileName, message)
		if err != nil {
			log.Printf("Error processing message: %v", err)
		}

		if h.twilioService != nil && response != "" {
			if err := h.twilioService.SendWhatsAppMessage(from, response); err != nil {
				log.Printf("❌ Failed to send WhatsApp response: %v", err)
			}
		} else if response != "" {
			log.Printf("📤 Response (not sent - Twilio not configured): %s", response)
		}
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is for testing without Twilio
type TestWebhookPayload struct {
	From    string `json:"from"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test WhatsApp messages (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	response, err := h.whatsappService.ProcessMessage(payload.From, payload.Name, payload.Message)
	if err != nil {
		log.Printf("Error processing test message: %v", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"response": response,
	})
}
