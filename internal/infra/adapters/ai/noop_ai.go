package ai

import (
	"context"
	"fmt"
	"time"

	"aiblty-platform/internal/domain/ports/adapter"
)

var _ adapter.CompletionGateway = (*NoopGateway)(nil)

// NoopGateway implements adapter.CompletionGateway for local/dev runs.
// It echoes canned output instead of calling a real provider.
type NoopGateway struct{}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

func (n *NoopGateway) Complete(ctx context.Context, mode string, messages []adapter.Message) (string, adapter.Usage, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	return fmt.Sprintf("## Noop Output\nmode=%s messages=%d", mode, len(messages)), adapter.Usage{}, nil
}

func (n *NoopGateway) StreamComplete(ctx context.Context, mode string, messages []adapter.Message) (adapter.CompletionStream, error) {
	text, _, err := n.Complete(ctx, mode, messages)
	if err != nil {
		return nil, err
	}
	return newSingleDeltaStream(text), nil
}

func (n *NoopGateway) CountTokens(ctx context.Context, mode string, messages []adapter.Message) (int, error) {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total, nil
}
