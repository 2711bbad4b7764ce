package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports service liveness
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "byn2-backend",
		"time":    time.Now().Format(time.RFC3339),
	})
}
