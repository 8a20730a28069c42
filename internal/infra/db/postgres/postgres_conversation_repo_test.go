//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
)

func TestConversationRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewConversationRepo(testPool)

	t.Run("should save a conversation with messages and load it back", func(t *testing.T) {
		cleanup(t)

		conv := model.NewConversation("user-1", "Launch plan")
		if err := repo.Save(ctx, nil, conv); err != nil {
			t.Fatalf("failed to save conversation: %v", err)
		}

		user := conv.AddMessage("user", "What should we launch first?", 7)
		assistant := conv.AddMessage("assistant", "Start with the smallest product.", 8)
		if err := repo.SaveMessage(ctx, nil, user); err != nil {
			t.Fatalf("failed to save user message: %v", err)
		}
		if err := repo.SaveMessage(ctx, nil, assistant); err != nil {
			t.Fatalf("failed to save assistant message: %v", err)
		}

		got, err := repo.FindByID(ctx, nil, conv.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got.Title != "Launch plan" {
			t.Errorf("unexpected title: %s", got.Title)
		}
		if len(got.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(got.Messages))
		}
		if got.Messages[0].Role != "user" || got.Messages[1].Role != "assistant" {
			t.Errorf("messages out of order: %+v", got.Messages)
		}
	})

	t.Run("delete should cascade to messages", func(t *testing.T) {
		cleanup(t)

		conv := model.NewConversation("user-1", "")
		repo.Save(ctx, nil, conv)
		repo.SaveMessage(ctx, nil, conv.AddMessage("user", "hello", 1))

		if err := repo.Delete(ctx, nil, conv.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		var count int
		err := testPool.QueryRow(ctx, "SELECT COUNT(*) FROM chat_messages WHERE conversation_id = $1", conv.ID).Scan(&count)
		if err != nil {
			t.Fatalf("failed to count messages: %v", err)
		}
		if count != 0 {
			t.Errorf("expected cascade delete, %d messages remain", count)
		}

		if _, err := repo.FindByID(ctx, nil, conv.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("rename should bump updated_at and surface missing ids", func(t *testing.T) {
		cleanup(t)

		conv := model.NewConversation("user-1", "old")
		repo.Save(ctx, nil, conv)

		if err := repo.UpdateTitle(ctx, nil, conv.ID, "new"); err != nil {
			t.Fatalf("UpdateTitle failed: %v", err)
		}
		got, _ := repo.FindByID(ctx, nil, conv.ID)
		if got.Title != "new" {
			t.Errorf("expected renamed title, got %s", got.Title)
		}

		if err := repo.UpdateTitle(ctx, nil, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown id, got %v", err)
		}
	})
}
