package websockets

import (
	"context"
	"time"

	"lectern/internal/handlers/middleware"

	"github.com/google/uuid"
)

const authLookupTimeout = 5 * time.Second

func (c *Client) authContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), authLookupTimeout)
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	userID, err := middleware.ValidateToken(token, c.Manager.config.JWTSecret)
	if err != nil {
		log.Info("token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Invalid token")
		return
	}

	ctx, cancel := c.authContext()
	defer cancel()

	user, err := c.Manager.userRepo.GetByID(ctx, c.Manager.db.SQLWithContext(ctx), userID)
	if err != nil {
		log.Info("user lookup failed", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("Unknown user")
		return
	}

	if !user.IsActive {
		c.sendAuthFailure("User is not active")
		return
	}

	c.UserID = user.ID
	c.Status = STATUS_AUTHENTICATED

	log.Info("Client authenticated", "clientID", c.ID, "userID", c.UserID)

	if !c.Manager.trySend(c, Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   "system",
		Action:    "authenticated",
		Data:      map[string]any{"userId": c.UserID.String()},
		Timestamp: time.Now(),
	}) {
		log.Warn("failed to deliver auth success", "clientID", c.ID)
	}
}

func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.Manager.trySend(c, Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	})

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}
