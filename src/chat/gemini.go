package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const geminiInstruction = "You are the MyGajanji assistant. Help the user track spending, " +
	"set budgets and understand their finances. Answer briefly in plain text."

// GeminiEngine answers with a single text reply generated by Gemini.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}
	return &GeminiEngine{client: client, model: model}, nil
}

func (e *GeminiEngine) Reply(ctx context.Context, req Request) ([]string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(geminiInstruction, genai.RoleUser),
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(req.Message), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return []string{unsupportedFragment}, nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return []string{unsupportedFragment}, nil
	}
	return []string{reply}, nil
}
