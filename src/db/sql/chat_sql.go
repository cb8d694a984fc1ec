package db

import (
	"context"
	"fmt"

	"gajanji-server/src/models"

	"github.com/google/uuid"
)

func (s *Store) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (id, user_id, role, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, role, text, created_at
	`
	var m models.ChatMessage
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), msg.UserID, msg.Role, msg.Text).
		Scan(&m.ID, &m.UserID, &m.Role, &m.Text, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}
	return &m, nil
}

// ListChatMessages returns the user's conversation, oldest first.
func (s *Store) ListChatMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, text, created_at
		FROM chat_messages WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
