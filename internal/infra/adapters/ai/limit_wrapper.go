package ai

import (
	"context"

	"aiblty-platform/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionGateway = (*limitedGateway)(nil)

type limitedGateway struct {
	inner adapter.CompletionGateway
	sem   chan struct{}
}

// NewLimitedGateway bounds the number of concurrent gateway calls. The slot
// for a streaming call is held until the stream is closed.
func NewLimitedGateway(inner adapter.CompletionGateway, maxConcurrent int) adapter.CompletionGateway {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedGateway{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedGateway) Complete(ctx context.Context, mode string, messages []adapter.Message) (string, adapter.Usage, error) {
	if err := l.acquire(ctx); err != nil {
		return "", adapter.Usage{}, err
	}
	defer l.release()
	return l.inner.Complete(ctx, mode, messages)
}

func (l *limitedGateway) StreamComplete(ctx context.Context, mode string, messages []adapter.Message) (adapter.CompletionStream, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	stream, err := l.inner.StreamComplete(ctx, mode, messages)
	if err != nil {
		l.release()
		return nil, err
	}
	return &limitedStream{inner: stream, release: l.release}, nil
}

func (l *limitedGateway) CountTokens(ctx context.Context, mode string, messages []adapter.Message) (int, error) {
	return l.inner.CountTokens(ctx, mode, messages)
}

func (l *limitedGateway) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limitedGateway) release() { <-l.sem }

type limitedStream struct {
	inner    adapter.CompletionStream
	release  func()
	released bool
}

func (s *limitedStream) Recv() (string, error) { return s.inner.Recv() }

func (s *limitedStream) Close() error {
	if !s.released {
		s.released = true
		s.release()
	}
	return s.inner.Close()
}
