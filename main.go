package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/restobook/restobook-backend/internal/jobs"
	"github.com/restobook/restobook-backend/internal/routes"
	"github.com/restobook/restobook-backend/internal/services"
	"github.com/restobook/restobook-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	// All state is in-memory and process-lifetime only; a restart means
	// codes are re-issued and reservations re-created.
	store := storage.NewMemoryStore()
	storage.SetStore(store)

	coordinator := services.NewCoordinator(store)
	services.SetCoordinator(coordinator)

	// Twilio is optional in development: without credentials the service
	// logs outbound messages instead of delivering them.
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio service not initialized: %v", err)
		log.Println("⚠️  Outbound WhatsApp delivery disabled - messages will be logged only")
	} else {
		services.SetTwilioService(twilioService)
		log.Println("✅ Twilio service initialized")
	}

	if os.Getenv("OPERATOR_WHATSAPP") == "" {
		log.Println("⚠️  OPERATOR_WHATSAPP not set - reservation prompts will be logged only")
	}

	// Start the expired-code sweep
	cleanupJob := jobs.NewCleanupJob(store, 5*time.Minute)
	cleanupJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "RestoBook Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Service info endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "RestoBook Backend API",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": "in-memory (process lifetime)",
			"whatsapp": fiber.Map{
				"configured": twilioService != nil,
			},
		})
	})

	routes.SetupRoutes(app, coordinator, twilioService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 RestoBook Backend starting on port %s", port)
	log.Printf("📱 WhatsApp: %s", whatsappStatus(twilioService))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func whatsappStatus(ts *services.TwilioService) string {
	if ts == nil {
		return "Not configured"
	}
	return "Configured"
}
