package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/byn2/byn2-backend/internal/handlers"
	"github.com/byn2/byn2-backend/internal/middleware"
	"github.com/byn2/byn2-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, bot *services.BotService) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Byn2 Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":  "/health",
				"webhook": "/webhook/whatsapp",
			},
		})
	})

	app.Get("/health", handlers.HealthCheck)

	webhook := handlers.NewWebhookHandler(bot)
	app.Get("/webhook/whatsapp", webhook.Verify)
	app.Post("/webhook/whatsapp", middleware.ValidateWebhookSignature(), webhook.Receive)
}
