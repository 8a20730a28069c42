package usecase

import (
	"context"
	"fmt"
	"strings"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/adapter"
	"aiblty-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// chatMode selects the conversational system prompt on the provider side,
// as opposed to the capability modes used by runs.
const chatMode = "chat"

const chatHistoryWindow = 15

type ChatUseCase interface {
	StartConversation(ctx context.Context, userID, title string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error
	SendMessage(ctx context.Context, userID, conversationID, text string) (reply string, err error)
	Rename(ctx context.Context, userID, conversationID, title string) error
	Find(ctx context.Context, userID, conversationID string) (*model.Conversation, error)
	List(ctx context.Context, userID string) ([]*model.Conversation, error)
}

type chatUC struct {
	conversations repository.ConversationRepository
	ai            adapter.CompletionGateway
	usage         UsageUseCase
}

func NewChatUseCase(conversations repository.ConversationRepository, ai adapter.CompletionGateway, usage UsageUseCase) *chatUC {
	return &chatUC{conversations: conversations, ai: ai, usage: usage}
}

func (c *chatUC) StartConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", domain.ErrInvalidArgument)
	}
	conv := model.NewConversation(userID, strings.TrimSpace(title))
	if err := c.conversations.Save(ctx, nil, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (c *chatUC) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if _, err := c.owned(ctx, userID, conversationID); err != nil {
		return err
	}
	return c.conversations.Delete(ctx, nil, conversationID)
}

func (c *chatUC) SendMessage(ctx context.Context, userID, conversationID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty message", domain.ErrInvalidArgument)
	}

	conv, err := c.owned(ctx, userID, conversationID)
	if err != nil {
		return "", err
	}

	if status, err := c.usage.Check(ctx, userID); err == nil && !status.CanProceed {
		return "", fmt.Errorf("%w: daily limit of %d tokens reached", domain.ErrQuotaExhausted, status.DailyLimit)
	}

	userMsg := conv.AddMessage("user", text, c.countOne(ctx, "user", text))
	if err := c.conversations.SaveMessage(ctx, nil, userMsg); err != nil {
		return "", err
	}

	recent := conv.RecentMessages(chatHistoryWindow)
	msgs := make([]adapter.Message, 0, len(recent))
	for _, m := range recent {
		msgs = append(msgs, adapter.Message{Role: m.Role, Content: m.Content})
	}

	reply, usage, err := c.ai.Complete(ctx, chatMode, msgs)
	if err != nil {
		return "", err
	}

	assistantMsg := conv.AddMessage("assistant", reply, c.countOne(ctx, "assistant", reply))
	if err := c.conversations.SaveMessage(ctx, nil, assistantMsg); err != nil {
		return "", err
	}
	// Bump updated_at so the list surfaces recently active conversations.
	_ = c.conversations.Save(ctx, nil, conv)

	total := usage.TotalTokens
	if total <= 0 {
		total = userMsg.Tokens + assistantMsg.Tokens
	}
	_ = c.usage.Record(ctx, userID, total)

	return reply, nil
}

func (c *chatUC) Rename(ctx context.Context, userID, conversationID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: empty title", domain.ErrInvalidArgument)
	}
	if _, err := c.owned(ctx, userID, conversationID); err != nil {
		return err
	}
	return c.conversations.UpdateTitle(ctx, nil, conversationID, title)
}

func (c *chatUC) Find(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	return c.owned(ctx, userID, conversationID)
}

func (c *chatUC) List(ctx context.Context, userID string) ([]*model.Conversation, error) {
	return c.conversations.FindByUser(ctx, nil, userID)
}

// owned loads the conversation and hides other users' conversations behind
// ErrNotFound rather than leaking their existence.
func (c *chatUC) owned(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := c.conversations.FindByID(ctx, nil, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (c *chatUC) countOne(ctx context.Context, role, content string) int {
	n, err := c.ai.CountTokens(ctx, chatMode, []adapter.Message{{Role: role, Content: content}})
	if err != nil {
		return 0
	}
	return n
}
