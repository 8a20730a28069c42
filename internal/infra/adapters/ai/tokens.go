package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"aiblty-platform/internal/domain/ports/adapter"
)

// countTokens estimates prompt tokens with tiktoken. Unknown models fall back
// to cl100k_base, which is close enough for usage accounting.
func countTokens(model string, messages []adapter.Message) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	total := 0
	for _, m := range messages {
		// Per-message wrapping overhead observed for chat-format prompts.
		total += 4
		total += len(enc.Encode(m.Role, nil, nil))
		total += len(enc.Encode(m.Content, nil, nil))
	}
	return total, nil
}
