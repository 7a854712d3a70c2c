package infrastructure

import (
	"fmt"
	"os"
	"sync"

	"project_turnos/pkg/logging"
)

// WhatsAppManager holds one WhatsApp client per tenant.
type WhatsAppManager struct {
	clients map[int]*WhatsAppClient
	mu      sync.RWMutex
	baseDir string
	log     *logging.Logger

	// Callback that builds the inbound event handler for a tenant's client.
	HandlerFactory func(tenantID int) func(interface{})
}

// NewWhatsAppManager creates a manager for per-tenant WhatsApp clients.
func NewWhatsAppManager(baseDir string, log *logging.Logger) *WhatsAppManager {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		log.Warn("could not create devices directory", "dir", baseDir, "error", err)
	}

	return &WhatsAppManager{
		clients: make(map[int]*WhatsAppClient),
		baseDir: baseDir,
		log:     log,
	}
}

// GetClient returns the tenant's client, nil when none exists.
func (m *WhatsAppManager) GetClient(tenantID int) *WhatsAppClient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[tenantID]
}

// GetOrCreateClient gets the existing client or creates one backed by the
// tenant's own session file.
func (m *WhatsAppManager) GetOrCreateClient(tenantID int) (*WhatsAppClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[tenantID]; exists {
		return client, nil
	}

	dbPath := fmt.Sprintf("%s/tenant_%d.db", m.baseDir, tenantID)
	client, err := NewWhatsAppClient(dbPath, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp client for tenant %d: %w", tenantID, err)
	}

	if m.HandlerFactory != nil {
		client.AddHandler(m.HandlerFactory(tenantID))
	}

	m.clients[tenantID] = client
	return client, nil
}

// ConnectClient connects the tenant's client, creating it if needed.
func (m *WhatsAppManager) ConnectClient(tenantID int) (*WhatsAppClient, error) {
	client, err := m.GetOrCreateClient(tenantID)
	if err != nil {
		return nil, err
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect WhatsApp for tenant %d: %w", tenantID, err)
	}
	return client, nil
}

// DisconnectClient disconnects and drops the tenant's client.
func (m *WhatsAppManager) DisconnectClient(tenantID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[tenantID]; exists {
		client.Disconnect()
		delete(m.clients, tenantID)
	}
}

// LogoutClient logs out the tenant's WhatsApp session. A missing or
// already-disconnected client counts as success.
func (m *WhatsAppManager) LogoutClient(tenantID int) error {
	m.mu.RLock()
	client, exists := m.clients[tenantID]
	m.mu.RUnlock()

	if !exists || client == nil {
		return nil
	}

	if !client.IsLoggedIn() && !client.Client.IsConnected() {
		m.mu.Lock()
		delete(m.clients, tenantID)
		m.mu.Unlock()
		return nil
	}

	err := client.Logout()

	m.mu.Lock()
	delete(m.clients, tenantID)
	m.mu.Unlock()

	return err
}

// ConnectedTenants returns the ids of tenants with a logged-in session.
func (m *WhatsAppManager) ConnectedTenants() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tenants []int
	for tenantID, client := range m.clients {
		if client.IsLoggedIn() {
			tenants = append(tenants, tenantID)
		}
	}
	return tenants
}

// DisconnectAll disconnects every client (for graceful shutdown).
func (m *WhatsAppManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		client.Disconnect()
	}
	m.clients = make(map[int]*WhatsAppClient)
}
