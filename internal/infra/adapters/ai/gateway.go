package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionGateway = (*GatewayAdapter)(nil)

// GatewayAdapter implements adapter.CompletionGateway against the hosted
// AIBLTY completion gateway (OpenAI-compatible Chat Completions wire format).
// Authorization: Bearer <key>; chat completions path is /chat/completions.
type GatewayAdapter struct {
	apiKey      string
	base        string // e.g., https://gateway.aiblty.ai/v1
	model       string
	modeModels  map[string]string // mode tag -> model override
	maxTokens   int
	temperature float64
	client      *http.Client
}

func NewGatewayAdapter(apiKey, base, model string, modeModels map[string]string, maxTokens int, temperature float64) (*GatewayAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gateway api key empty")
	}
	if base == "" {
		return nil, errors.New("gateway base url empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	return &GatewayAdapter{
		apiKey:      apiKey,
		base:        strings.TrimRight(base, "/"),
		model:       model,
		modeModels:  modeModels,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type completionRequest struct {
	Model       string            `json:"model"`
	Messages    []adapter.Message `json:"messages"`
	Stream      bool              `json:"stream"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

func (g *GatewayAdapter) Complete(ctx context.Context, mode string, messages []adapter.Message) (string, adapter.Usage, error) {
	resp, err := g.post(ctx, mode, messages, false)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", adapter.Usage{}, fmt.Errorf("decode completion: %w", err)
	}
	usage := adapter.Usage{
		PromptTokens:     payload.Usage.PromptTokens,
		CompletionTokens: payload.Usage.CompletionTokens,
		TotalTokens:      payload.Usage.TotalTokens,
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, usage, nil
		}
	}
	return "", usage, errors.New("no choice content")
}

func (g *GatewayAdapter) StreamComplete(ctx context.Context, mode string, messages []adapter.Message) (adapter.CompletionStream, error) {
	resp, err := g.post(ctx, mode, messages, true)
	if err != nil {
		return nil, err
	}
	return NewSSEStream(resp.Body), nil
}

func (g *GatewayAdapter) CountTokens(ctx context.Context, mode string, messages []adapter.Message) (int, error) {
	return countTokens(g.resolveModel(mode), messages)
}

func (g *GatewayAdapter) post(ctx context.Context, mode string, messages []adapter.Message, stream bool) (*http.Response, error) {
	body := completionRequest{
		Model:       g.resolveModel(mode),
		Messages:    messages,
		Stream:      stream,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, gatewayError(resp)
	}
	return resp, nil
}

func (g *GatewayAdapter) resolveModel(mode string) string {
	if m, ok := g.modeModels[mode]; ok && m != "" {
		return m
	}
	return g.model
}

// gatewayError maps non-2xx statuses onto domain errors, surfacing the
// gateway's own message verbatim so the UI can show it unchanged.
func gatewayError(resp *http.Response) error {
	msg := errorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", domain.ErrQuotaExhausted, msg)
	default:
		return fmt.Errorf("gateway http %d: %s", resp.StatusCode, msg)
	}
}

// errorMessage extracts the message from either {"error":"..."} or
// {"error":{"message":"..."}} bodies, falling back to the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
