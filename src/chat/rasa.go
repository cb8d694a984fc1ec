package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type rasaRequest struct {
	Sender   string       `json:"sender"`
	Message  string       `json:"message"`
	Metadata rasaMetadata `json:"metadata"`
}

type rasaMetadata struct {
	Token string `json:"token,omitempty"`
}

// RasaEngine talks to a Rasa REST channel webhook.
type RasaEngine struct {
	url    string
	client *http.Client
}

func NewRasaEngine(url string, timeout time.Duration) *RasaEngine {
	return &RasaEngine{url: url, client: &http.Client{Timeout: timeout}}
}

func (e *RasaEngine) Reply(ctx context.Context, req Request) ([]string, error) {
	body, err := json.Marshal(rasaRequest{
		Sender:   req.Sender,
		Message:  req.Message,
		Metadata: rasaMetadata{Token: req.Token},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rasa request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build rasa request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rasa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rasa responded with status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read rasa response: %w", err)
	}
	fragments, err := decodeFragments(raw)
	if err != nil {
		return nil, err
	}

	replies := make([]string, 0, len(fragments))
	for _, f := range fragments {
		replies = append(replies, f.Display())
	}
	return replies, nil
}

// decodeFragments accepts only a JSON array; any other JSON value yields no
// replies.
func decodeFragments(raw []byte) ([]Fragment, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}
	var fragments []Fragment
	if err := json.Unmarshal(trimmed, &fragments); err != nil {
		return nil, fmt.Errorf("failed to decode rasa response: %w", err)
	}
	return fragments, nil
}
