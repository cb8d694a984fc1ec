// Package chat relays user messages to a dialogue engine and keeps the
// per-user conversation log.
package chat

import (
	"context"
	"strings"
)

const unsupportedFragment = "[unsupported message]"

type Request struct {
	// Sender scopes the conversation on the engine side; it is the user id.
	Sender  string
	Message string
	// Token is the caller's bearer token, forwarded so engine actions can
	// call back into the API as the user.
	Token string
}

// Engine produces the bot replies for one user message, already flattened
// to display text.
type Engine interface {
	Reply(ctx context.Context, req Request) ([]string, error)
}

type Button struct {
	Title   string `json:"title"`
	Payload string `json:"payload,omitempty"`
}

// Fragment is one element of an engine response.
type Fragment struct {
	RecipientID string   `json:"recipient_id,omitempty"`
	Text        *string  `json:"text,omitempty"`
	Image       string   `json:"image,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
}

// Display flattens a fragment to the text stored in the conversation log.
func (f Fragment) Display() string {
	switch {
	case f.Text != nil:
		return *f.Text
	case f.Image != "":
		return "[image] " + f.Image
	case len(f.Buttons) > 0:
		titles := make([]string, len(f.Buttons))
		for i, b := range f.Buttons {
			titles[i] = b.Title
		}
		return "Options: " + strings.Join(titles, " | ")
	default:
		return unsupportedFragment
	}
}
