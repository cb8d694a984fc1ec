package models

import "time"

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

type ChatMessage struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"-"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
