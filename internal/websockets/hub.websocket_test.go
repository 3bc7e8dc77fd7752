package websockets

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestManager() *Manager {
	return &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log: logger.New("websockets"),
	}
}

func newTestClient(m *Manager, userID uuid.UUID) *Client {
	return &Client{
		ID:      uuid.New().String(),
		UserID:  userID,
		Manager: m,
		Status:  STATUS_AUTHENTICATED,
		send:    make(chan Message, 1),
	}
}

func TestTrySend(t *testing.T) {
	m := newTestManager()
	client := newTestClient(m, uuid.New())
	m.registerClient(client)

	t.Run("delivers to a registered client", func(t *testing.T) {
		assert.True(t, m.trySend(client, Message{Type: MESSAGE_TYPE_MESSAGE}))
		assert.Len(t, client.send, 1)
	})

	t.Run("does not block on a full channel", func(t *testing.T) {
		assert.False(t, m.trySend(client, Message{Type: MESSAGE_TYPE_MESSAGE}))
	})

	t.Run("refuses after unregister", func(t *testing.T) {
		m.unregisterClient(client)
		assert.False(t, m.trySend(client, Message{Type: MESSAGE_TYPE_MESSAGE}))
		assert.Equal(t, STATUS_CLOSED, client.Status)
	})
}

func TestUnregisterClient_Idempotent(t *testing.T) {
	m := newTestManager()
	client := newTestClient(m, uuid.New())
	m.registerClient(client)

	m.unregisterClient(client)
	assert.NotPanics(t, func() { m.unregisterClient(client) })
}

func TestSendMessageToUser_AfterUnregister(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()
	client := newTestClient(m, userID)
	m.registerClient(client)
	m.unregisterClient(client)

	assert.NotPanics(t, func() {
		m.SendMessageToUser(userID, Message{Type: MESSAGE_TYPE_MESSAGE})
	})
}

func TestSendMessageToUser_SkipsUnauthenticated(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()
	client := newTestClient(m, userID)
	client.Status = STATUS_UNAUTHENTICATED
	m.registerClient(client)

	m.SendMessageToUser(userID, Message{Type: MESSAGE_TYPE_MESSAGE})
	assert.Empty(t, client.send)
}

func TestSendMessageToUser_OnlyTargetsMatchingUser(t *testing.T) {
	m := newTestManager()
	userA := uuid.New()
	userB := uuid.New()
	clientA := newTestClient(m, userA)
	clientB := newTestClient(m, userB)
	m.registerClient(clientA)
	m.registerClient(clientB)

	m.SendMessageToUser(userA, Message{Type: MESSAGE_TYPE_MESSAGE})

	assert.Len(t, clientA.send, 1)
	assert.Empty(t, clientB.send)
}
