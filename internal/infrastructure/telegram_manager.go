package infrastructure

import (
	"fmt"
	"sync"

	"project_turnos/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBotInstance is one tenant's polled bot.
type TelegramBotInstance struct {
	Bot       *tgbotapi.BotAPI
	TenantID  int
	StopChan  chan struct{}
	IsRunning bool
	mu        sync.Mutex
}

// TelegramBotManager runs one polling loop per tenant bot token.
type TelegramBotManager struct {
	bots map[int]*TelegramBotInstance
	mu   sync.RWMutex
	log  *logging.Logger

	// MessageHandler processes each update on the tenant's behalf.
	MessageHandler func(bot *tgbotapi.BotAPI, update tgbotapi.Update, tenantID int)
}

func NewTelegramBotManager(log *logging.Logger) *TelegramBotManager {
	return &TelegramBotManager{
		bots: make(map[int]*TelegramBotInstance),
		log:  log,
	}
}

// GetBot returns the tenant's bot instance, nil when not connected.
func (m *TelegramBotManager) GetBot(tenantID int) *TelegramBotInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bots[tenantID]
}

// ValidateToken checks a token by creating a throwaway bot.
func (m *TelegramBotManager) ValidateToken(token string) (string, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	return bot.Self.UserName, nil
}

// ConnectBot starts polling for a tenant with its token.
func (m *TelegramBotManager) ConnectBot(tenantID int, token string) (*TelegramBotInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bots[tenantID]; ok && existing.IsRunning {
		return existing, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	instance := &TelegramBotInstance{
		Bot:      bot,
		TenantID: tenantID,
		StopChan: make(chan struct{}),
	}

	m.bots[tenantID] = instance
	go m.startPolling(instance)

	return instance, nil
}

func (m *TelegramBotManager) startPolling(instance *TelegramBotInstance) {
	instance.mu.Lock()
	instance.IsRunning = true
	instance.mu.Unlock()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := instance.Bot.GetUpdatesChan(u)

	m.log.Info("telegram polling started", "tenant_id", instance.TenantID, "bot", instance.Bot.Self.UserName)

	for {
		select {
		case <-instance.StopChan:
			m.log.Info("telegram polling stopped", "tenant_id", instance.TenantID)
			instance.mu.Lock()
			instance.IsRunning = false
			instance.mu.Unlock()
			return
		case update := <-updates:
			if m.MessageHandler != nil {
				go m.MessageHandler(instance.Bot, update, instance.TenantID)
			}
		}
	}
}

// DisconnectBot stops a tenant's bot.
func (m *TelegramBotManager) DisconnectBot(tenantID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if instance, ok := m.bots[tenantID]; ok {
		close(instance.StopChan)
		delete(m.bots, tenantID)
	}
}

// GetStatus returns connection status for a tenant.
func (m *TelegramBotManager) GetStatus(tenantID int) (connected bool, botName string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if instance, ok := m.bots[tenantID]; ok && instance.IsRunning {
		return true, instance.Bot.Self.UserName
	}
	return false, ""
}

// DisconnectAll stops every bot (for graceful shutdown).
func (m *TelegramBotManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, instance := range m.bots {
		close(instance.StopChan)
	}
	m.bots = make(map[int]*TelegramBotInstance)
}

// SendMessage sends text through a tenant's bot.
func (m *TelegramBotManager) SendMessage(tenantID int, chatID int64, text string) error {
	m.mu.RLock()
	instance, ok := m.bots[tenantID]
	m.mu.RUnlock()

	if !ok || !instance.IsRunning {
		return fmt.Errorf("bot not connected for tenant %d", tenantID)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := instance.Bot.Send(msg)
	return err
}
