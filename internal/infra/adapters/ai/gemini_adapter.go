package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"aiblty-platform/internal/domain/ports/adapter"
)

var _ adapter.CompletionGateway = (*GeminiAdapter)(nil)

// GeminiAdapter implements adapter.CompletionGateway on the official Gemini
// SDK. The SDK owns its own transport, so the streaming contract is satisfied
// with a single-delta stream around the blocking call.
type GeminiAdapter struct {
	client     *genai.Client
	model      string
	modeModels map[string]string
	maxOut     int
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, modeModels map[string]string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, modeModels: modeModels, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Complete(ctx context.Context, mode string, messages []adapter.Message) (string, adapter.Usage, error) {
	if len(messages) == 0 {
		return "", adapter.Usage{}, errors.New("gemini: no messages")
	}
	history := toGenAIHistory(messages[:len(messages)-1])

	chat, err := g.client.Chats.Create(
		ctx,
		g.resolveModel(mode),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(g.maxOut),
		},
		history,
	)
	if err != nil {
		return "", adapter.Usage{}, err
	}

	last := messages[len(messages)-1]
	if strings.ToLower(last.Role) != "user" {
		return "", adapter.Usage{}, errors.New("gemini: last message must be from user")
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", adapter.Usage{}, err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	u := adapter.Usage{}
	if resp != nil && resp.UsageMetadata != nil {
		u.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		u.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return text, u, nil
}

func (g *GeminiAdapter) StreamComplete(ctx context.Context, mode string, messages []adapter.Message) (adapter.CompletionStream, error) {
	text, _, err := g.Complete(ctx, mode, messages)
	if err != nil {
		return nil, err
	}
	return newSingleDeltaStream(text), nil
}

func (g *GeminiAdapter) CountTokens(ctx context.Context, mode string, messages []adapter.Message) (int, error) {
	contents := toGenAIHistory(messages)
	resp, err := g.client.Models.CountTokens(ctx, g.resolveModel(mode), contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiAdapter) resolveModel(mode string) string {
	if m, ok := g.modeModels[mode]; ok && m != "" {
		return m
	}
	return g.model
}

func toGenAIHistory(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		case "system":
			// Gemini has no separate system role in history; treat as a
			// user instruction.
			role = genai.RoleUser
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}
