package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// MessageType distinguishes the closed set of outbound message shapes.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageButtons MessageType = "buttons"
	MessageList    MessageType = "list"
)

// Button is a quick-reply button on an interactive message
type Button struct {
	ID    string
	Title string
}

// ListRow is a single selectable row in a list message
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// Message is a tagged outbound message. Exactly one serializer, at the
// gateway boundary, turns it into the provider envelope.
type Message struct {
	Type       MessageType
	To         string
	Header     string
	Body       string
	Footer     string
	Buttons    []Button  // MessageButtons only
	ButtonText string    // MessageList only: the list-opener label
	Rows       []ListRow // MessageList only
}

// Messenger sends templated messages to the chat transport. The bot
// depends on this interface; tests substitute a fake.
type Messenger interface {
	SendText(to, body string) error
	Send(msg Message) error
}

// WhatsAppService sends messages through the WhatsApp Business Cloud API
type WhatsAppService struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewWhatsAppService creates a new WhatsApp gateway from environment variables
func NewWhatsAppService() (*WhatsAppService, error) {
	accessToken := os.Getenv("WHATSAPP_ACCESS_TOKEN")
	phoneNumberID := os.Getenv("WHATSAPP_PHONE_NUMBER_ID")

	if accessToken == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("missing WhatsApp credentials in environment variables")
	}

	return &WhatsAppService{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       fmt.Sprintf("%s/%s", graphAPIBase, phoneNumberID),
		client:        &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SendText sends a plain text message
func (w *WhatsAppService) SendText(to, body string) error {
	return w.Send(Message{Type: MessageText, To: to, Body: body})
}

// Send serializes the message into a Cloud API envelope and posts it
func (w *WhatsAppService) Send(msg Message) error {
	envelope, err := serialize(msg)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ WhatsApp send failed (%d): %s", resp.StatusCode, string(body))
		return fmt.Errorf("whatsapp API error: status %d", resp.StatusCode)
	}

	log.Printf("✅ WhatsApp %s message sent to %s", msg.Type, msg.To)
	return nil
}

// Cloud API envelope structures

type apiEnvelope struct {
	MessagingProduct string          `json:"messaging_product"`
	RecipientType    string          `json:"recipient_type"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Text             *apiText        `json:"text,omitempty"`
	Interactive      *apiInteractive `json:"interactive,omitempty"`
}

type apiText struct {
	Body string `json:"body"`
}

type apiInteractive struct {
	Type   string     `json:"type"` // "button" or "list"
	Header *apiHeader `json:"header,omitempty"`
	Body   apiText    `json:"body"`
	Footer *apiText   `json:"footer,omitempty"`
	Action apiAction  `json:"action"`
}

type apiHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiAction struct {
	Buttons  []apiButton  `json:"buttons,omitempty"`
	Button   string       `json:"button,omitempty"`
	Sections []apiSection `json:"sections,omitempty"`
}

type apiButton struct {
	Type  string       `json:"type"`
	Reply apiButtonRef `json:"reply"`
}

type apiButtonRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type apiSection struct {
	Title string   `json:"title,omitempty"`
	Rows  []apiRow `json:"rows"`
}

type apiRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func serialize(msg Message) (*apiEnvelope, error) {
	envelope := &apiEnvelope{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               msg.To,
	}

	switch msg.Type {
	case MessageText:
		envelope.Type = "text"
		envelope.Text = &apiText{Body: msg.Body}

	case MessageButtons:
		if len(msg.Buttons) == 0 {
			return nil, fmt.Errorf("buttons message requires at least one button")
		}
		envelope.Type = "interactive"
		envelope.Interactive = &apiInteractive{
			Type: "button",
			Body: apiText{Body: msg.Body},
		}
		if msg.Header != "" {
			envelope.Interactive.Header = &apiHeader{Type: "text", Text: msg.Header}
		}
		if msg.Footer != "" {
			envelope.Interactive.Footer = &apiText{Body: msg.Footer}
		}
		for _, b := range msg.Buttons {
			envelope.Interactive.Action.Buttons = append(envelope.Interactive.Action.Buttons, apiButton{
				Type:  "reply",
				Reply: apiButtonRef{ID: b.ID, Title: b.Title},
			})
		}

	case MessageList:
		if len(msg.Rows) == 0 {
			return nil, fmt.Errorf("list message requires at least one row")
		}
		envelope.Type = "interactive"
		buttonText := msg.ButtonText
		if buttonText == "" {
			buttonText = "Options"
		}
		rows := make([]apiRow, 0, len(msg.Rows))
		for _, r := range msg.Rows {
			rows = append(rows, apiRow{ID: r.ID, Title: r.Title, Description: r.Description})
		}
		envelope.Interactive = &apiInteractive{
			Type: "list",
			Body: apiText{Body: msg.Body},
			Action: apiAction{
				Button:   buttonText,
				Sections: []apiSection{{Rows: rows}},
			},
		}
		if msg.Header != "" {
			envelope.Interactive.Header = &apiHeader{Type: "text", Text: msg.Header}
		}
		if msg.Footer != "" {
			envelope.Interactive.Footer = &apiText{Body: msg.Footer}
		}

	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}

	return envelope, nil
}
