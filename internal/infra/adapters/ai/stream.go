package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/ports/adapter"
)

// Compile-time assurance the stream satisfies the port
var _ adapter.CompletionStream = (*sseStream)(nil)

const (
	ssePrefix    = "data: "
	sseDoneToken = "[DONE]"
)

// chunkPayload mirrors one streamed chat-completion event.
type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// sseStream incrementally decodes a text/event-stream body into content
// deltas. Lines are extracted on '\n' boundaries (a trailing '\r' is
// tolerated); blank lines and ':' comments are skipped; only "data: " lines
// carry payloads.
//
// A payload that fails to parse stays at the front of the buffer until more
// bytes arrive: the line boundary may have fallen inside a JSON payload that
// was split across chunks, and discarding it would silently drop content.
// Transport close bounds that wait; a payload still unparsable at EOF
// surfaces as a decode error.
type sseStream struct {
	body   io.ReadCloser
	buf    []byte
	read   []byte
	done   bool
	err    error
	eof    bool
	closed bool
}

// NewSSEStream wraps a response body in a content-delta stream.
func NewSSEStream(body io.ReadCloser) adapter.CompletionStream {
	return &sseStream{body: body, read: make([]byte, 4096)}
}

func (s *sseStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	if s.err != nil {
		return "", s.err
	}

	for {
		delta, emitted, err := s.scan()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
			} else {
				s.err = err
			}
			_ = s.Close()
			return "", err
		}
		if emitted {
			return delta, nil
		}

		// Need more bytes.
		if s.eof {
			// Transport exhausted without [DONE]: implicit completion.
			s.done = true
			_ = s.Close()
			return "", io.EOF
		}
		n, rerr := s.body.Read(s.read)
		if n > 0 {
			s.buf = append(s.buf, s.read[:n]...)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				s.eof = true
				continue
			}
			s.err = fmt.Errorf("stream read: %w", rerr)
			_ = s.Close()
			return "", s.err
		}
	}
}

// scan consumes buffered lines until it emits a delta, hits a terminal
// condition, or runs out of parseable data. A non-emitting nil-error return
// means more bytes are required.
func (s *sseStream) scan() (string, bool, error) {
	for {
		line, rest, ok := s.nextLine()
		if !ok {
			return "", false, nil
		}
		if len(line) == 0 || line[0] == ':' {
			s.buf = rest
			continue
		}
		if !bytes.HasPrefix(line, []byte(ssePrefix)) {
			s.buf = rest
			continue
		}
		payload := bytes.TrimSpace(line[len(ssePrefix):])
		if string(payload) == sseDoneToken {
			return "", false, io.EOF
		}

		var chunk chunkPayload
		if jerr := json.Unmarshal(payload, &chunk); jerr != nil {
			if s.eof {
				// No more bytes can ever complete this payload.
				return "", false, fmt.Errorf("%w: unparsable event %q", domain.ErrStreamDecode, clip(line, 80))
			}
			// Put the line back and wait for more data.
			return "", false, nil
		}
		s.buf = rest

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			return chunk.Choices[0].Delta.Content, true, nil
		}
	}
}

// nextLine returns the next complete line without consuming it from the
// buffer; callers advance s.buf to rest once the line is fully handled.
// After transport EOF the trailing unterminated bytes count as a final line.
func (s *sseStream) nextLine() (line, rest []byte, ok bool) {
	idx := bytes.IndexByte(s.buf, '\n')
	switch {
	case idx >= 0:
		line, rest = s.buf[:idx], s.buf[idx+1:]
	case s.eof && len(s.buf) > 0:
		line, rest = s.buf, nil
	default:
		return nil, nil, false
	}
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, rest, true
}

func (s *sseStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func clip(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
