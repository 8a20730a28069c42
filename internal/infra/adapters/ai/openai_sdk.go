package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionGateway = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.CompletionGateway on the official OpenAI
// SDK. Used when no AIBLTY gateway key is configured.
type OpenAIAdapter struct {
	client      openai.Client
	model       string
	modeModels  map[string]string
	maxTokens   int
	temperature float64
}

func NewOpenAIAdapter(apiKey, model string, modeModels map[string]string, maxTokens int, temperature float64) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	return &OpenAIAdapter{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		modeModels:  modeModels,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (o *OpenAIAdapter) Complete(ctx context.Context, mode string, messages []adapter.Message) (string, adapter.Usage, error) {
	completion, err := o.client.Chat.Completions.New(ctx, o.params(mode, messages))
	if err != nil {
		return "", adapter.Usage{}, mapSDKError(err)
	}
	usage := adapter.Usage{
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
	for _, c := range completion.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, usage, nil
		}
	}
	return "", usage, errors.New("no choice content")
}

func (o *OpenAIAdapter) StreamComplete(ctx context.Context, mode string, messages []adapter.Message) (adapter.CompletionStream, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, o.params(mode, messages))
	return &openaiStream{stream: stream}, nil
}

func (o *OpenAIAdapter) CountTokens(ctx context.Context, mode string, messages []adapter.Message) (int, error) {
	return countTokens(o.resolveModel(mode), messages)
}

func (o *OpenAIAdapter) params(mode string, messages []adapter.Message) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.resolveModel(mode)),
		Messages:    msgs,
		MaxTokens:   openai.Int(int64(o.maxTokens)),
		Temperature: openai.Float(o.temperature),
	}
}

func (o *OpenAIAdapter) resolveModel(mode string) string {
	if m, ok := o.modeModels[mode]; ok && m != "" {
		return m
	}
	return o.model
}

// openaiStream adapts the SDK stream to the port contract.
type openaiStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *openaiStream) Recv() (string, error) {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			return chunk.Choices[0].Delta.Content, nil
		}
	}
	if err := s.stream.Err(); err != nil {
		return "", mapSDKError(err)
	}
	return "", io.EOF
}

func (s *openaiStream) Close() error { return s.stream.Close() }

func mapSDKError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 429:
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apierr.Message)
		case 402:
			return fmt.Errorf("%w: %s", domain.ErrQuotaExhausted, apierr.Message)
		}
	}
	return err
}
