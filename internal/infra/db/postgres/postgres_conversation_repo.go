package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
	"aiblty-platform/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*conversationRepo)(nil)

type conversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *conversationRepo {
	return &conversationRepo{pool: pool}
}

func (r *conversationRepo) Save(ctx context.Context, tx repository.Tx, c *model.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = time.Now()

	const q = `
INSERT INTO conversations (id, user_id, title, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *conversationRepo) SaveMessage(ctx context.Context, tx repository.Tx, m *model.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	const q = `
INSERT INTO chat_messages (id, conversation_id, role, content, tokens, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.ConversationID, m.Role, m.Content, m.Tokens, m.CreatedAt)
	return err
}

// Delete cascades to chat_messages via the FK constraint.
func (r *conversationRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conversationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Conversation, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	var c model.Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translateScanErr(err)
	}

	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT id, conversation_id, role, content, tokens, created_at
FROM chat_messages WHERE conversation_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Tokens, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		c.Messages = append(c.Messages, m)
	}
	return &c, rows.Err()
}

func (r *conversationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Conversation, error) {
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT id, user_id, title, created_at, updated_at
FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *conversationRepo) UpdateTitle(ctx context.Context, tx repository.Tx, id, title string) error {
	cmd, err := execSQL(ctx, r.pool, tx,
		`UPDATE conversations SET title = $2, updated_at = $3 WHERE id = $1`, id, title, time.Now())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
