package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ValidateWebhookSignature checks the X-Hub-Signature-256 header
// against an HMAC-SHA256 of the raw body. When WHATSAPP_APP_SECRET is
// unset (local development) validation is skipped.
func ValidateWebhookSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("WHATSAPP_APP_SECRET")
		if secret == "" {
			return c.Next()
		}

		header := c.Get("X-Hub-Signature-256")
		if !strings.HasPrefix(header, "sha256=") {
			log.Printf("⚠️ Webhook rejected: missing signature header")
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		provided, err := hex.DecodeString(strings.TrimPrefix(header, "sha256="))
		if err != nil {
			log.Printf("⚠️ Webhook rejected: malformed signature header")
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(c.Body())
		if !hmac.Equal(provided, mac.Sum(nil)) {
			log.Printf("⚠️ Webhook rejected: signature mismatch")
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.Next()
	}
}
