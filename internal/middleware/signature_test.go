package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignedApp() *fiber.App {
	app := fiber.New()
	app.Post("/hook", ValidateWebhookSignature(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureAccepted(t *testing.T) {
	t.Setenv("WHATSAPP_APP_SECRET", "hook-secret")
	app := newSignedApp()

	body := `{"messages":[]}`
	req := httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", sign("hook-secret", body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignatureRejected(t *testing.T) {
	t.Setenv("WHATSAPP_APP_SECRET", "hook-secret")
	app := newSignedApp()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong secret", sign("other-secret", `{"messages":[]}`)},
		{"malformed hex", "sha256=zzzz"},
		{"wrong prefix", "md5=abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/hook", strings.NewReader(`{"messages":[]}`))
			if tt.header != "" {
				req.Header.Set("X-Hub-Signature-256", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestSignatureSkippedWithoutSecret(t *testing.T) {
	t.Setenv("WHATSAPP_APP_SECRET", "")
	app := newSignedApp()

	req := httptest.NewRequest("POST", "/hook", strings.NewReader(`{"messages":[]}`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
