package handlers

import (
	"errors"
	"net/http"
	"time"

	"gajanji-server/src/chat"
	"gajanji-server/src/logger"
	"gajanji-server/src/models"
	"gajanji-server/src/util"
)

type chatReply struct {
	Role      models.ChatRole `json:"role"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

func PostChatMessage(proxy *chat.Proxy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}

		var req struct {
			Message string `json:"message"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "message is required")
			return
		}

		stored, err := proxy.Send(r.Context(), id.UserID, id.Token, req.Message)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyMessage) {
				util.WriteError(w, http.StatusBadRequest, "message is required")
				return
			}
			logger.FromContext(r.Context()).Error("Chat request failed", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Chat service unavailable")
			return
		}

		replies := make([]chatReply, 0, len(stored))
		for _, m := range stored {
			replies = append(replies, chatReply{Role: m.Role, Text: m.Text, CreatedAt: m.CreatedAt})
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"replies": replies})
	}
}

func GetChatMessages(proxy *chat.Proxy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity(w, r)
		if !ok {
			return
		}

		messages, err := proxy.History(r.Context(), id.UserID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to load chat history", logger.FieldError, err)
			util.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if messages == nil {
			messages = []models.ChatMessage{}
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
	}
}
