package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gajanji-server/src/logger"
	"gajanji-server/src/models"
)

var ErrEmptyMessage = errors.New("message is required")

type Store interface {
	CreateChatMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	ListChatMessages(ctx context.Context, userID string) ([]models.ChatMessage, error)
}

// Proxy records both sides of a conversation around an Engine call.
type Proxy struct {
	store  Store
	engine Engine
	log    *logger.Logger
}

func NewProxy(store Store, engine Engine, log *logger.Logger) *Proxy {
	return &Proxy{store: store, engine: engine, log: log.WithComponent(logger.ComponentChat)}
}

// Send stores the user's message, asks the engine and stores each reply as a
// bot message. The stored bot messages are returned in order.
func (p *Proxy) Send(ctx context.Context, userID, token, message string) ([]models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := p.store.CreateChatMessage(ctx, &models.ChatMessage{UserID: userID, Role: models.ChatRoleUser, Text: message}); err != nil {
		return nil, err
	}

	replies, err := p.engine.Reply(ctx, Request{Sender: userID, Message: message, Token: token})
	if err != nil {
		p.log.Error("Chat engine call failed", logger.FieldUserID, userID, logger.FieldError, err)
		return nil, fmt.Errorf("chat engine: %w", err)
	}

	stored := make([]models.ChatMessage, 0, len(replies))
	for _, text := range replies {
		m, err := p.store.CreateChatMessage(ctx, &models.ChatMessage{UserID: userID, Role: models.ChatRoleBot, Text: text})
		if err != nil {
			return nil, err
		}
		stored = append(stored, *m)
	}
	return stored, nil
}

func (p *Proxy) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return p.store.ListChatMessages(ctx, userID)
}
