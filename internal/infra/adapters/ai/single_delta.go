package ai

import (
	"io"

	"aiblty-platform/internal/domain/ports/adapter"
)

var _ adapter.CompletionStream = (*singleDeltaStream)(nil)

// singleDeltaStream satisfies the streaming contract for providers that only
// expose a blocking call: the whole text arrives as one delta, then EOF.
type singleDeltaStream struct {
	content string
	sent    bool
}

func newSingleDeltaStream(content string) *singleDeltaStream {
	return &singleDeltaStream{content: content}
}

func (s *singleDeltaStream) Recv() (string, error) {
	if s.sent {
		return "", io.EOF
	}
	s.sent = true
	if s.content == "" {
		return "", io.EOF
	}
	return s.content, nil
}

func (s *singleDeltaStream) Close() error { return nil }
