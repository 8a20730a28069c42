package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Usage for a single completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionStream yields content deltas from a streaming completion.
// Recv returns io.EOF exactly once when the stream is complete; any other
// error is terminal and no further deltas follow. Close releases the
// underlying transport and is safe to call more than once.
type CompletionStream interface {
	Recv() (string, error)
	Close() error
}

// CompletionGateway is the port for the hosted completion service.
// The mode tag selects the provider-side model/system-prompt pairing.
type CompletionGateway interface {
	// Complete returns the whole assistant text in one blocking call.
	Complete(ctx context.Context, mode string, messages []Message) (string, Usage, error)

	// StreamComplete opens a streaming completion; the caller owns the stream
	// and must drain or close it.
	StreamComplete(ctx context.Context, mode string, messages []Message) (CompletionStream, error)

	// CountTokens returns prompt tokens for the provided messages
	// (best-effort when exact counting isn't available).
	CountTokens(ctx context.Context, mode string, messages []Message) (int, error)
}
