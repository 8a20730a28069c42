package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one message within a conversation.
type ChatMessage struct {
	ID             string
	ConversationID string
	Role           string // "user" | "assistant"
	Content        string
	Tokens         int
	CreatedAt      time.Time
}

// Conversation is the aggregate root for the interactive chat surface.
// Deleting a conversation cascades to its messages.
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewConversation(userID, title string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Messages:  make([]ChatMessage, 0, 8),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Conversation) AddMessage(role, content string, tokens int) *ChatMessage {
	c.Messages = append(c.Messages, ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		Role:           role,
		Content:        content,
		Tokens:         tokens,
		CreatedAt:      time.Now(),
	})
	c.UpdatedAt = time.Now()
	return &c.Messages[len(c.Messages)-1]
}

func (c *Conversation) RecentMessages(n int) []ChatMessage {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}
