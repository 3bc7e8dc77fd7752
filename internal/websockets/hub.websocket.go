package websockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

const (
	SLOW_CLIENT_TIMEOUT    = 5 * time.Second
	SLOW_CLIENT_RETRY_WAIT = 50 * time.Millisecond
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	m.log.Function("registerClient").
		Info("Client registered", "clientID", client.ID, "status", client.Status)
}

// unregisterClient is the only place the send channel is closed. The hub
// mutex orders the close against trySend, and the membership check makes a
// repeat unregister of the same client a no-op.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if current, ok := m.hub.clients[client.ID]; !ok || current != client {
		return
	}

	delete(m.hub.clients, client.ID)
	client.Status = STATUS_CLOSED
	close(client.send)

	m.log.Function("unregisterClient").
		Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

// trySend delivers without blocking, and only while the client is still
// registered. Holding the read lock keeps the channel open for the duration
// of the send attempt.
func (m *Manager) trySend(client *Client, message Message) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	if current, ok := m.hub.clients[client.ID]; !ok || current != client {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

func (m *Manager) isRegistered(client *Client) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	current, ok := m.hub.clients[client.ID]
	return ok && current == client
}

func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	targets := make([]*Client, 0, len(m.hub.clients))
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}
		targets = append(targets, client)
	}
	m.hub.mutex.RUnlock()

	if len(targets) == 0 {
		return
	}

	sentCount := 0
	for _, client := range targets {
		if m.trySend(client, message) {
			sentCount++
			continue
		}
		go m.retrySend(client, message)
	}

	log.Info(
		"Message sent to user connections",
		"userID", userID,
		"messageID", message.ID,
		"sentTo", sentCount,
		"totalConnections", len(targets),
	)
}

// retrySend keeps retrying a full send channel until the client drains it,
// goes away, or the timeout disconnects it.
func (m *Manager) retrySend(client *Client, message Message) {
	log := m.log.Function("retrySend")

	deadline := time.NewTimer(SLOW_CLIENT_TIMEOUT)
	defer deadline.Stop()
	retry := time.NewTicker(SLOW_CLIENT_RETRY_WAIT)
	defer retry.Stop()

	for {
		select {
		case <-retry.C:
			if m.trySend(client, message) {
				return
			}
			if !m.isRegistered(client) {
				return
			}

		case <-deadline.C:
			_ = log.Error("Client too slow, disconnecting", "clientID", client.ID)
			m.hub.unregister <- client
			return
		}
	}
}
