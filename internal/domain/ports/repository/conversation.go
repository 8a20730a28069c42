package repository

import (
	"context"

	"aiblty-platform/internal/domain/model"
)

type ConversationRepository interface {
	Save(ctx context.Context, tx Tx, conversation *model.Conversation) error
	SaveMessage(ctx context.Context, tx Tx, message *model.ChatMessage) error
	// Delete removes the conversation and cascades to its messages.
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Conversation, error)
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Conversation, error)
	UpdateTitle(ctx context.Context, tx Tx, id, title string) error
}
