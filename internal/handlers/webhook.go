package handlers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/byn2/byn2-backend/internal/services"
)

// WebhookHandler receives inbound WhatsApp traffic and hands each
// message to the bot engine.
type WebhookHandler struct {
	bot *services.BotService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bot *services.BotService) *WebhookHandler {
	return &WebhookHandler{bot: bot}
}

// Inbound payload shape from the chat transport.

type webhookPayload struct {
	Messages []inboundMessage `json:"messages"`
}

type inboundMessage struct {
	From     string        `json:"from"`
	FromName string        `json:"from_name"`
	Text     *inboundText  `json:"text"`
	Reply    *inboundReply `json:"reply"`
}

type inboundText struct {
	Body string `json:"body"`
}

type inboundReply struct {
	ButtonsReply *inboundReplyRef `json:"buttons_reply"`
	ListReply    *inboundReplyRef `json:"list_reply"`
}

type inboundReplyRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Receive handles POST /webhook/whatsapp. It ALWAYS returns 200: a
// non-2xx response makes the transport redeliver the same message, and
// the bot already surfaces failures to the user itself.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("⚠️ Unparseable webhook payload: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	for _, msg := range payload.Messages {
		if msg.From == "" {
			continue
		}
		in := services.Incoming{
			From: msg.From,
			Name: msg.FromName,
		}
		if msg.Text != nil {
			in.Text = msg.Text.Body
		}
		if msg.Reply != nil {
			if msg.Reply.ButtonsReply != nil {
				in.ReplyID = msg.Reply.ButtonsReply.ID
			} else if msg.Reply.ListReply != nil {
				in.ReplyID = msg.Reply.ListReply.ID
			}
		}
		h.bot.HandleMessage(in)
	}

	return c.SendStatus(fiber.StatusOK)
}

// Verify handles GET /webhook/whatsapp, the Cloud API subscription
// challenge: echo hub.challenge back when the verify token matches.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == os.Getenv("WHATSAPP_VERIFY_TOKEN") {
		return c.SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}
