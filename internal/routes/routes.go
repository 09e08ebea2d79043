package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/restobook/restobook-backend/internal/handlers"
	"github.com/restobook/restobook-backend/internal/middleware"
	"github.com/restobook/restobook-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, coordinator *services.Coordinator, twilioService *services.TwilioService) {
	operatorPhone := os.Getenv("OPERATOR_WHATSAPP")

	authHandler := handlers.NewAuthHandler(coordinator)
	reservationHandler := handlers.NewReservationHandler(coordinator, twilioService, operatorPhone)
	whatsappHandler := handlers.NewWhatsAppHandler(services.NewWhatsAppService(coordinator), twilioService)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	// App-facing API (paths kept compatible with the mobile client)
	app.Post("/verify", authHandler.VerifyCode)
	app.Post("/reservation", reservationHandler.CreateReservation)
	app.Get("/status", reservationHandler.GetStatus)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip validation for ngrok
		webhooks.Post("/whatsapp", whatsappHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  WhatsApp webhook validation DISABLED for development")
		}
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsappHandler.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)
}
