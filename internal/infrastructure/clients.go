package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"project_turnos/internal/entities"
	"project_turnos/internal/interfaces"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WhatsAppBusinessClient sends through the WhatsApp Cloud API. It is the
// alternative to a whatsmeow session for tenants with an official business
// number.
type WhatsAppBusinessClient struct {
	accessToken   string
	phoneNumberID string
}

func NewWhatsAppBusinessClient(accessToken, phoneNumberID string) interfaces.Messenger {
	return &WhatsAppBusinessClient{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
	}
}

func (w *WhatsAppBusinessClient) SendMessage(to, content string) error {
	url := fmt.Sprintf("https://graph.facebook.com/v18.0/%s/messages", w.phoneNumberID)
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": content,
		},
	}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(data))
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("cloud api status %d", resp.StatusCode)
	}
	return nil
}

func (w *WhatsAppBusinessClient) ReceiveMessage() (entities.Message, error) {
	// Webhook-based; handled in handler
	return entities.Message{}, nil
}

// WhatsAppMessenger adapts a tenant's whatsmeow session to the Messenger
// port so notices go out over the same channel the dialog runs on.
type WhatsAppMessenger struct {
	client *WhatsAppClient
}

func NewWhatsAppMessenger(client *WhatsAppClient) interfaces.Messenger {
	return &WhatsAppMessenger{client: client}
}

func (w *WhatsAppMessenger) SendMessage(to, content string) error {
	return w.client.SendMessage(to, content)
}

func (w *WhatsAppMessenger) ReceiveMessage() (entities.Message, error) {
	// Event-based; handled through the manager's HandlerFactory
	return entities.Message{}, nil
}

// TelegramClient adapts a tenant's bot to the Messenger port; "to" is the
// chat id in decimal.
type TelegramClient struct {
	Bot *tgbotapi.BotAPI
}

func NewTelegramClient(bot *tgbotapi.BotAPI) interfaces.Messenger {
	return &TelegramClient{Bot: bot}
}

func (t *TelegramClient) SendMessage(to, content string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	msg := tgbotapi.NewMessage(chatID, content)
	msg.ParseMode = "Markdown"
	_, err = t.Bot.Send(msg)
	return err
}

// SendMessageWithMenu sends a message with an inline keyboard attached.
func (t *TelegramClient) SendMessageWithMenu(to, content string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	msg := tgbotapi.NewMessage(chatID, content)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	_, err = t.Bot.Send(msg)
	return err
}

func (t *TelegramClient) ReceiveMessage() (entities.Message, error) {
	// Polling-based; handled by the bot manager
	return entities.Message{}, nil
}
